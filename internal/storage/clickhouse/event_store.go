package clickhouse

import (
	"context"
	"fmt"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

// EventStore implements storage.EventStore using ClickHouse. The events
// table is a plain MergeTree: duplicated telemetry rows are part of the
// dataset and must survive storage untouched.
type EventStore struct {
	conn *Conn
}

// NewEventStore creates a new EventStore.
func NewEventStore(conn *Conn) *EventStore {
	return &EventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

// InsertBulk appends event rows. Duplicates are allowed.
func (s *EventStore) InsertBulk(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO events (
			game_user_id, timestamp_ms, raw_time, raw_time_set, event_name, session_id, params
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range events {
		err = batch.Append(
			e.GameUserID, uint64(e.TimestampMs), e.RawTime, e.RawTimeSet,
			e.Name, e.SessionID, e.Params,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByPlayer retrieves all events for a player, ordered by timestamp ASC.
func (s *EventStore) GetByPlayer(ctx context.Context, gameUserID string) ([]*domain.Event, error) {
	query := `
		SELECT game_user_id, timestamp_ms, raw_time, raw_time_set, event_name, session_id, params
		FROM events
		WHERE game_user_id = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, gameUserID)
	if err != nil {
		return nil, fmt.Errorf("query by player: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetByTimeRange retrieves events within [start, end] (inclusive, ms).
func (s *EventStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.Event, error) {
	query := `
		SELECT game_user_id, timestamp_ms, raw_time, raw_time_set, event_name, session_id, params
		FROM events
		WHERE timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// CountByName returns row counts grouped by event name.
func (s *EventStore) CountByName(ctx context.Context) (map[string]int, error) {
	query := `SELECT event_name, count(*) FROM events GROUP BY event_name`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count by name: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count uint64
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		counts[name] = int(count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate count rows: %w", err)
	}

	return counts, nil
}

// scanEvents scans multiple rows.
func scanEvents(rows chRows) ([]*domain.Event, error) {
	var events []*domain.Event

	for rows.Next() {
		var e domain.Event
		var timestampMs uint64

		err := rows.Scan(
			&e.GameUserID, &timestampMs, &e.RawTime, &e.RawTimeSet,
			&e.Name, &e.SessionID, &e.Params,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}

		e.TimestampMs = int64(timestampMs)
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}
