package memory

import (
	"context"
	"errors"
	"testing"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

func TestLabelStore_InsertAndGet(t *testing.T) {
	store := NewLabelStore()
	ctx := context.Background()

	l := &domain.LabelRow{
		GameUserID:             "u000001",
		InstallDate:            "2024-03-01",
		UACost:                 2.4,
		LTV:                    domain.LTV{D7: 4.99, D30: 9.98, D60: 9.98, D90: 14.97},
		IsPayerByD7:            true,
		FirstPurchaseTimeHours: 13.5,
	}

	if err := store.Insert(ctx, l); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "u000001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LTV.D90 != 14.97 {
		t.Errorf("LTV.D90 mismatch: got %f, want 14.97", got.LTV.D90)
	}

	if err := store.Insert(ctx, l); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestLabelStore_GetPayers(t *testing.T) {
	store := NewLabelStore()
	ctx := context.Background()

	rows := []*domain.LabelRow{
		{GameUserID: "u000002", LTV: domain.LTV{D90: 29.99}},
		{GameUserID: "u000001", LTV: domain.LTV{}},
		{GameUserID: "u000003", LTV: domain.LTV{D90: 4.99}},
	}
	if err := store.InsertBulk(ctx, rows); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	payers, err := store.GetPayers(ctx)
	if err != nil {
		t.Fatalf("GetPayers failed: %v", err)
	}
	if len(payers) != 2 {
		t.Fatalf("expected 2 payers, got %d", len(payers))
	}
	if payers[0].GameUserID != "u000002" || payers[1].GameUserID != "u000003" {
		t.Errorf("wrong order: %s, %s", payers[0].GameUserID, payers[1].GameUserID)
	}
}

func TestUACostStore_DuplicateCampaignDate(t *testing.T) {
	store := NewUACostStore()
	ctx := context.Background()

	rows := []*domain.UACostRow{
		{CampaignID: "cmp_social_01", Date: "2024-03-01", Spend: 120},
		{CampaignID: "cmp_social_01", Date: "2024-03-02", Spend: 140},
	}
	if err := store.InsertBulk(ctx, rows); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	dup := []*domain.UACostRow{{CampaignID: "cmp_social_01", Date: "2024-03-01", Spend: 99}}
	if err := store.InsertBulk(ctx, dup); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 rows, got %d", len(all))
	}
}

func TestScoreStore_PerModelRows(t *testing.T) {
	store := NewScoreStore()
	ctx := context.Background()

	rows := []*domain.ScoreRow{
		{GameUserID: "u000002", Pred: 3.5, Decile: 6, Segment: domain.SegmentLow},
		{GameUserID: "u000001", Pred: 80.1, Decile: 10, IsTop1Pct: true, Segment: domain.SegmentWhale},
	}
	if err := store.InsertBulk(ctx, "gbt_aaa", rows); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	// The same player may be scored by another model.
	if err := store.InsertBulk(ctx, "gbt_bbb", rows); err != nil {
		t.Fatalf("second model InsertBulk failed: %v", err)
	}

	// But not twice by the same one.
	if err := store.InsertBulk(ctx, "gbt_aaa", rows[:1]); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	got, err := store.GetByModel(ctx, "gbt_aaa")
	if err != nil {
		t.Fatalf("GetByModel failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].GameUserID != "u000001" {
		t.Errorf("expected sorted rows, got %s first", got[0].GameUserID)
	}
}
