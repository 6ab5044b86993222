// Package quality injects realistic telemetry-pipeline defects into the
// generated event and payment tables: exact duplicates, future-dated rows,
// malformed timestamps and missing keys.
package quality

import (
	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/rng"
)

// Rates configures corruption volume. Each rate is relative to the table
// size before corruption, so the injections never compound.
type Rates struct {
	DupEvent     float64
	LateEvent    float64
	BadTimestamp float64
	MissingID    float64
	DupPayment   float64
}

// ReferenceRates are the defaults observed in production-like telemetry.
var ReferenceRates = Rates{
	DupEvent:     0.03,
	LateEvent:    0.015,
	BadTimestamp: 0.005,
	MissingID:    0.003,
	DupPayment:   0.02,
}

// malformedTimestamps is the fixed set of broken timestamp strings emitted
// verbatim into the CSV.
var malformedTimestamps = []string{
	"",
	"NaN",
	"1970-01-01T00:00:00Z",
	"invalid-date",
	"2099-12-31T23:59:59Z",
}

const dayMs = int64(24 * 60 * 60 * 1000)

// Corruptor applies post-hoc corruption with draws from the generation
// stream.
type Corruptor struct {
	stream *rng.Stream
	rates  Rates
}

// NewCorruptor creates a Corruptor.
func NewCorruptor(stream *rng.Stream, rates Rates) *Corruptor {
	return &Corruptor{stream: stream, rates: rates}
}

// Events corrupts the event table and returns it shuffled so the injected
// rows interleave with the clean ones instead of trailing the file.
func (c *Corruptor) Events(events []domain.Event) []domain.Event {
	n := len(events)
	if n == 0 {
		return events
	}
	out := events

	// Exact duplicates.
	for i := 0; i < count(n, c.rates.DupEvent); i++ {
		out = append(out, out[c.stream.IntRange(0, n-1)])
	}

	// Future-dated re-emissions, shifted 30-90 days forward.
	for i := 0; i < count(n, c.rates.LateEvent); i++ {
		e := events[c.stream.IntRange(0, n-1)]
		e.TimestampMs += int64((30 + c.stream.Float64()*60) * float64(dayMs))
		out = append(out, e)
	}

	// Malformed timestamp strings.
	for i := 0; i < count(n, c.rates.BadTimestamp); i++ {
		e := events[c.stream.IntRange(0, n-1)]
		e.RawTime = malformedTimestamps[c.stream.IntRange(0, len(malformedTimestamps)-1)]
		e.RawTimeSet = true
		out = append(out, e)
	}

	// Missing player ids.
	for i := 0; i < count(n, c.rates.MissingID); i++ {
		e := events[c.stream.IntRange(0, n-1)]
		e.GameUserID = ""
		out = append(out, e)
	}

	c.shuffleEvents(out)
	return out
}

// Payments duplicates a share of payment rows exactly and shuffles.
func (c *Corruptor) Payments(payments []domain.Payment) []domain.Payment {
	n := len(payments)
	if n == 0 {
		return payments
	}
	out := payments

	for i := 0; i < count(n, c.rates.DupPayment); i++ {
		out = append(out, out[c.stream.IntRange(0, n-1)])
	}

	c.shufflePayments(out)
	return out
}

func count(n int, rate float64) int {
	return int(float64(n) * rate)
}

func (c *Corruptor) shuffleEvents(rows []domain.Event) {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	c.stream.ShuffleInts(idx)
	shuffled := make([]domain.Event, len(rows))
	for i, j := range idx {
		shuffled[i] = rows[j]
	}
	copy(rows, shuffled)
}

func (c *Corruptor) shufflePayments(rows []domain.Payment) {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	c.stream.ShuffleInts(idx)
	shuffled := make([]domain.Payment, len(rows))
	for i, j := range idx {
		shuffled[i] = rows[j]
	}
	copy(rows, shuffled)
}
