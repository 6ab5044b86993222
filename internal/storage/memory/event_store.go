package memory

import (
	"context"
	"sort"
	"sync"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

// EventStore is an in-memory implementation of storage.EventStore.
// Append-only; duplicate rows are kept because duplicated telemetry is part
// of the dataset.
type EventStore struct {
	mu   sync.RWMutex
	rows []domain.Event
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

// InsertBulk appends event rows. Duplicates are allowed.
func (s *EventStore) InsertBulk(_ context.Context, events []*domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		if e == nil {
			return storage.ErrInvalidInput
		}
		s.rows = append(s.rows, *e)
	}
	return nil
}

// GetByPlayer retrieves all events for a player, ordered by timestamp ASC.
func (s *EventStore) GetByPlayer(_ context.Context, gameUserID string) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Event
	for i := range s.rows {
		if s.rows[i].GameUserID == gameUserID {
			eventCopy := s.rows[i]
			result = append(result, &eventCopy)
		}
	}

	sortEvents(result)
	return result, nil
}

// GetByTimeRange retrieves events within [start, end] (inclusive, ms).
func (s *EventStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Event
	for i := range s.rows {
		if s.rows[i].TimestampMs >= start && s.rows[i].TimestampMs <= end {
			eventCopy := s.rows[i]
			result = append(result, &eventCopy)
		}
	}

	sortEvents(result)
	return result, nil
}

// CountByName returns row counts grouped by event name.
func (s *EventStore) CountByName(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for i := range s.rows {
		counts[s.rows[i].Name]++
	}
	return counts, nil
}

func sortEvents(events []*domain.Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].TimestampMs != events[j].TimestampMs {
			return events[i].TimestampMs < events[j].TimestampMs
		}
		return events[i].SessionID < events[j].SessionID
	})
}
