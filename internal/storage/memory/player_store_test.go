package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

func testPlayer(id string, installMs int64, channel domain.Channel) *domain.Player {
	return &domain.Player{
		GameUserID:    id,
		InstallID:     "inst-" + id,
		InstallTimeMs: installMs,
		CampaignID:    "cmp_social_01",
		AdsetID:       "as_01",
		CreativeID:    "cr_01",
		Channel:       channel,
		Country:       "US",
		OS:            "android",
		DeviceModel:   "Pixel 7",
		DeviceTier:    domain.TierMid,
	}
}

func TestPlayerStore_InsertAndGet(t *testing.T) {
	store := NewPlayerStore()
	ctx := context.Background()

	p := testPlayer("u000001", 1709294400000, domain.ChannelPaidSocial)

	err := store.Insert(ctx, p)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "u000001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.GameUserID != p.GameUserID {
		t.Errorf("GameUserID mismatch: got %s, want %s", got.GameUserID, p.GameUserID)
	}
	if got.InstallID != p.InstallID {
		t.Errorf("InstallID mismatch: got %s, want %s", got.InstallID, p.InstallID)
	}
}

func TestPlayerStore_DuplicateKey(t *testing.T) {
	store := NewPlayerStore()
	ctx := context.Background()

	p := testPlayer("u000001", 1709294400000, domain.ChannelOrganic)

	if err := store.Insert(ctx, p); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	err := store.Insert(ctx, p)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestPlayerStore_NotFound(t *testing.T) {
	store := NewPlayerStore()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayerStore_InsertBulkAtomic(t *testing.T) {
	store := NewPlayerStore()
	ctx := context.Background()

	batch := []*domain.Player{
		testPlayer("u000001", 1709294400000, domain.ChannelOrganic),
		testPlayer("u000002", 1709294401000, domain.ChannelOrganic),
		testPlayer("u000001", 1709294402000, domain.ChannelOrganic), // dup inside batch
	}

	err := store.InsertBulk(ctx, batch)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	// Nothing from the failed batch may land.
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty store after failed batch, got %d rows", count)
	}
}

func TestPlayerStore_GetByChannelSorted(t *testing.T) {
	store := NewPlayerStore()
	ctx := context.Background()

	players := []*domain.Player{
		testPlayer("u000003", 300, domain.ChannelOrganic),
		testPlayer("u000001", 100, domain.ChannelOrganic),
		testPlayer("u000002", 200, domain.ChannelInfluencer),
	}
	if err := store.InsertBulk(ctx, players); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByChannel(ctx, domain.ChannelOrganic)
	if err != nil {
		t.Fatalf("GetByChannel failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 organic players, got %d", len(got))
	}
	if got[0].GameUserID != "u000001" || got[1].GameUserID != "u000003" {
		t.Errorf("wrong order: %s, %s", got[0].GameUserID, got[1].GameUserID)
	}
}

func TestPlayerStore_GetByInstallRange(t *testing.T) {
	store := NewPlayerStore()
	ctx := context.Background()

	for i, ms := range []int64{100, 200, 300, 400} {
		p := testPlayer(string(rune('a'+i)), ms, domain.ChannelOrganic)
		if err := store.Insert(ctx, p); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByInstallRange(ctx, 200, 300)
	if err != nil {
		t.Fatalf("GetByInstallRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 players in range, got %d", len(got))
	}
}

func TestPlayerStore_ConcurrentAccess(t *testing.T) {
	store := NewPlayerStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			p := testPlayer(string(rune('a'+n)), int64(n), domain.ChannelOrganic)
			if err := store.Insert(ctx, p); err != nil {
				t.Errorf("Insert failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 10 {
		t.Errorf("expected 10 players, got %d", count)
	}
}
