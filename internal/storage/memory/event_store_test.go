package memory

import (
	"context"
	"testing"

	"mmo-analytics-lab/internal/domain"
)

func TestEventStore_DuplicatesAllowed(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	e := &domain.Event{
		GameUserID:  "u000001",
		TimestampMs: 1709294400000,
		Name:        domain.EventSessionStart,
		SessionID:   "u000001-d00-s1",
	}

	// The same row twice is a valid telemetry defect, not an error.
	if err := store.InsertBulk(ctx, []*domain.Event{e, e}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByPlayer(ctx, "u000001")
	if err != nil {
		t.Fatalf("GetByPlayer failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 rows, got %d", len(got))
	}
}

func TestEventStore_GetByPlayerSorted(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	events := []*domain.Event{
		{GameUserID: "u000001", TimestampMs: 300, Name: domain.EventSessionEnd, SessionID: "s1"},
		{GameUserID: "u000001", TimestampMs: 100, Name: domain.EventSessionStart, SessionID: "s1"},
		{GameUserID: "u000002", TimestampMs: 200, Name: domain.EventSessionStart, SessionID: "s2"},
	}
	if err := store.InsertBulk(ctx, events); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByPlayer(ctx, "u000001")
	if err != nil {
		t.Fatalf("GetByPlayer failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].TimestampMs != 100 || got[1].TimestampMs != 300 {
		t.Errorf("wrong order: %d, %d", got[0].TimestampMs, got[1].TimestampMs)
	}
}

func TestEventStore_GetByTimeRange(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	events := []*domain.Event{
		{GameUserID: "u000001", TimestampMs: 100, Name: domain.EventCombatHit},
		{GameUserID: "u000001", TimestampMs: 200, Name: domain.EventCombatKill},
		{GameUserID: "u000001", TimestampMs: 300, Name: domain.EventItemLoot},
	}
	if err := store.InsertBulk(ctx, events); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByTimeRange(ctx, 100, 200)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 rows in range, got %d", len(got))
	}
}

func TestEventStore_CountByName(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	events := []*domain.Event{
		{GameUserID: "u000001", TimestampMs: 1, Name: domain.EventCombatHit},
		{GameUserID: "u000001", TimestampMs: 2, Name: domain.EventCombatHit},
		{GameUserID: "u000002", TimestampMs: 3, Name: domain.EventGachaPull},
	}
	if err := store.InsertBulk(ctx, events); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	counts, err := store.CountByName(ctx)
	if err != nil {
		t.Fatalf("CountByName failed: %v", err)
	}
	if counts[domain.EventCombatHit] != 2 {
		t.Errorf("combat_hit count: got %d, want 2", counts[domain.EventCombatHit])
	}
	if counts[domain.EventGachaPull] != 1 {
		t.Errorf("gacha_pull count: got %d, want 1", counts[domain.EventGachaPull])
	}
}
