package quality

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/rng"
)

func cleanEvents(n int) []domain.Event {
	events := make([]domain.Event, n)
	for i := range events {
		events[i] = domain.Event{
			GameUserID:  fmt.Sprintf("u%06d", i%100+1),
			TimestampMs: int64(1709280000000 + i*1000),
			Name:        domain.EventCombatHit,
			SessionID:   "s1",
		}
	}
	return events
}

func TestEvents_ProportionsMatchRates(t *testing.T) {
	n := 10000
	events := cleanEvents(n)
	out := NewCorruptor(rng.New(42), ReferenceRates).Events(events)

	// 3% dups + 1.5% late + 0.5% bad ts + 0.3% missing id = +5.3%
	expected := n + int(float64(n)*0.03) + int(float64(n)*0.015) +
		int(float64(n)*0.005) + int(float64(n)*0.003)
	require.Len(t, out, expected)

	badTS, missingID, future := 0, 0, 0
	for _, e := range out {
		if e.RawTimeSet {
			badTS++
		}
		if e.GameUserID == "" {
			missingID++
		}
		if e.TimestampMs > 1709280000000+int64(n)*1000+29*dayMs {
			future++
		}
	}
	assert.Equal(t, int(float64(n)*0.005), badTS)
	assert.Equal(t, int(float64(n)*0.003), missingID)
	assert.Equal(t, int(float64(n)*0.015), future)
}

func TestEvents_EmptyTimestampVariantIsFlagged(t *testing.T) {
	n := 20000
	out := NewCorruptor(rng.New(42), ReferenceRates).Events(cleanEvents(n))

	// The malformed set includes the empty string, so the RawTimeSet flag,
	// not a non-empty RawTime, marks corruption. At this scale every
	// variant, the empty one included, must show up flagged.
	variants := make(map[string]int)
	for _, e := range out {
		if e.RawTimeSet {
			variants[e.RawTime]++
		}
	}
	for _, v := range malformedTimestamps {
		assert.Positive(t, variants[v], "variant %q never injected", v)
	}

	total := 0
	for _, c := range variants {
		total += c
	}
	assert.Equal(t, int(float64(n)*ReferenceRates.BadTimestamp), total)
}

func TestEvents_CorruptedRowsInterleaved(t *testing.T) {
	n := 5000
	out := NewCorruptor(rng.New(7), ReferenceRates).Events(cleanEvents(n))

	// After shuffling, the corrupted rows must not sit in a tail block:
	// at least one malformed row appears in the first half.
	firstHalfBad := false
	for _, e := range out[:len(out)/2] {
		if e.RawTimeSet || e.GameUserID == "" {
			firstHalfBad = true
			break
		}
	}
	assert.True(t, firstHalfBad)
}

func TestEvents_Deterministic(t *testing.T) {
	a := NewCorruptor(rng.New(42), ReferenceRates).Events(cleanEvents(2000))
	b := NewCorruptor(rng.New(42), ReferenceRates).Events(cleanEvents(2000))
	assert.Equal(t, a, b)
}

func TestPayments_DupRate(t *testing.T) {
	n := 4000
	payments := make([]domain.Payment, n)
	for i := range payments {
		payments[i] = domain.Payment{
			GameUserID:  fmt.Sprintf("u%06d", i%50+1),
			TimestampMs: int64(1709280000000 + i*60000),
			AmountUSD:   9.99,
			ProductSKU:  domain.SKUGachaPack10,
			Channel:     domain.PayChannelAppStore,
		}
	}

	out := NewCorruptor(rng.New(42), ReferenceRates).Payments(payments)
	assert.Len(t, out, n+int(float64(n)*0.02))
}

func TestEvents_EmptyInput(t *testing.T) {
	c := NewCorruptor(rng.New(42), ReferenceRates)
	assert.Empty(t, c.Events(nil))
	assert.Empty(t, c.Payments(nil))
}
