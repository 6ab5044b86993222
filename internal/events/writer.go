package events

import (
	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/rng"
)

// Writer is the budget-guarded event write path. Each attempted write is
// either silently dropped (transport loss, consumes no budget), written once,
// or written twice (client-side duplicate delivery, both rows counted).
// Once the global cap is reached nothing is written for any player, but the
// outer generation loop keeps running so the player roster is never
// truncated.
type Writer struct {
	sink   Sink
	budget *Budget
	stream *rng.Stream

	dropRate float64
	dupRate  float64

	// Stats
	Dropped    int
	Duplicated int
}

// NewWriter creates a Writer around a sink and a shared budget.
func NewWriter(sink Sink, budget *Budget, stream *rng.Stream, dropRate, dupRate float64) *Writer {
	return &Writer{
		sink:     sink,
		budget:   budget,
		stream:   stream,
		dropRate: dropRate,
		dupRate:  dupRate,
	}
}

// Write attempts to emit e and returns the number of rows actually appended
// (0, 1 or 2). Dropped writes never consume budget: the loss happened in
// transport, so from the pipeline's point of view the row never existed.
func (w *Writer) Write(e domain.Event) int {
	if w.budget.RemainingCapacity() == 0 {
		return 0
	}

	if w.stream.Chance(w.dropRate) {
		w.Dropped++
		return 0
	}

	w.sink.Append(e)
	w.budget.written++

	if w.stream.Chance(w.dupRate) && w.budget.RemainingCapacity() > 0 {
		w.sink.Append(e)
		w.budget.written++
		w.Duplicated++
		return 2
	}

	return 1
}
