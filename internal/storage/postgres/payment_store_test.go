package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmo-analytics-lab/internal/domain"
)

func TestPaymentStore_DuplicateRowsAllowed(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPaymentStore(pool)
	ctx := context.Background()

	p := &domain.Payment{
		GameUserID:  "u000001",
		TimestampMs: 1709294400000,
		AmountUSD:   4.99,
		ProductSKU:  domain.SKUStarterPack,
		Channel:     domain.PayChannelAppStore,
	}

	// Duplicated payment rows are a corruption artifact, not a key violation.
	require.NoError(t, store.InsertBulk(ctx, []*domain.Payment{p, p}))

	rows, err := store.GetByPlayer(ctx, "u000001")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.SKUStarterPack, rows[0].ProductSKU)
	assert.Equal(t, domain.PayChannelAppStore, rows[0].Channel)
}

func TestPaymentStore_TotalRevenueExcludesRefunds(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPaymentStore(pool)
	ctx := context.Background()

	payments := []*domain.Payment{
		{GameUserID: "u000001", TimestampMs: 100, AmountUSD: 9.99, ProductSKU: domain.SKUBattlePass, Channel: domain.PayChannelGooglePlay},
		{GameUserID: "u000001", TimestampMs: 200, AmountUSD: 29.99, ProductSKU: domain.SKUGemBundleL, Channel: domain.PayChannelGooglePlay, IsRefund: true},
		{GameUserID: "u000002", TimestampMs: 300, AmountUSD: 4.99, ProductSKU: domain.SKUGemBundleS, Channel: domain.PayChannelPayPal},
	}
	require.NoError(t, store.InsertBulk(ctx, payments))

	total, err := store.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 14.98, total, 1e-9)
}

func TestPaymentStore_GetByPlayerOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPaymentStore(pool)
	ctx := context.Background()

	payments := []*domain.Payment{
		{GameUserID: "u000001", TimestampMs: 300, AmountUSD: 1, ProductSKU: domain.SKUGemBundleS, Channel: domain.PayChannelCarrier},
		{GameUserID: "u000001", TimestampMs: 100, AmountUSD: 2, ProductSKU: domain.SKUGemBundleS, Channel: domain.PayChannelCarrier},
		{GameUserID: "u000002", TimestampMs: 200, AmountUSD: 3, ProductSKU: domain.SKUGemBundleS, Channel: domain.PayChannelCarrier},
	}
	require.NoError(t, store.InsertBulk(ctx, payments))

	rows, err := store.GetByPlayer(ctx, "u000001")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(100), rows[0].TimestampMs)
	assert.Equal(t, int64(300), rows[1].TimestampMs)
}
