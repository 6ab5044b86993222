// Package events synthesizes per-session gameplay telemetry under a global
// event budget.
package events

import "mmo-analytics-lab/internal/domain"

// Budget is the process-wide event write budget. It is threaded explicitly
// through the generation call graph; the generator loop is single-threaded,
// so plain sequential mutation is sufficient.
type Budget struct {
	written int
	cap     int
}

// NewBudget creates a budget with the given hard ceiling.
func NewBudget(cap int) *Budget {
	return &Budget{cap: cap}
}

// RemainingCapacity returns how many more rows may be written.
func (b *Budget) RemainingCapacity() int {
	if b.written >= b.cap {
		return 0
	}
	return b.cap - b.written
}

// Written returns the number of rows written so far.
func (b *Budget) Written() int { return b.written }

// Cap returns the hard ceiling.
func (b *Budget) Cap() int { return b.cap }

// PlayerShare computes the fair share of the remaining budget for the next
// player given how many players have yet to be generated. The floor keeps a
// late player from being starved by an early heavy hitter.
const minPlayerShare = 250

func (b *Budget) PlayerShare(remainingPlayers int) int {
	if remainingPlayers <= 0 {
		return b.RemainingCapacity()
	}
	share := b.RemainingCapacity() / remainingPlayers
	if share < minPlayerShare {
		share = minPlayerShare
	}
	return share
}

// Sink is the append-only destination for generated events. Implementations
// are sequential; there is exactly one writer for the whole generation pass.
type Sink interface {
	Append(e domain.Event)
}

// MemorySink buffers events in memory for the corruption and export phases.
type MemorySink struct {
	Events []domain.Event
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append adds one event row.
func (s *MemorySink) Append(e domain.Event) {
	s.Events = append(s.Events, e)
}
