package postgres

import (
	"context"
	"fmt"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

// PaymentStore implements storage.PaymentStore using PostgreSQL.
// The payments table has a surrogate key: duplicated transaction rows are a
// legitimate data-quality artifact and are stored verbatim.
type PaymentStore struct {
	pool *Pool
}

// NewPaymentStore creates a new PaymentStore.
func NewPaymentStore(pool *Pool) *PaymentStore {
	return &PaymentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PaymentStore = (*PaymentStore)(nil)

// InsertBulk appends payment rows. Duplicates are allowed.
func (s *PaymentStore) InsertBulk(ctx context.Context, payments []*domain.Payment) error {
	if len(payments) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO payments (
			game_user_id, txn_time_ms, amount_usd, product_sku, payment_channel, is_refund
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, p := range payments {
		_, err := tx.Exec(ctx, query,
			p.GameUserID,
			p.TimestampMs,
			p.AmountUSD,
			string(p.ProductSKU),
			string(p.Channel),
			p.IsRefund,
		)
		if err != nil {
			return fmt.Errorf("insert payment for %s: %w", p.GameUserID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit payments: %w", err)
	}
	return nil
}

// GetByPlayer retrieves all payments for a player, ordered by timestamp ASC.
func (s *PaymentStore) GetByPlayer(ctx context.Context, gameUserID string) ([]*domain.Payment, error) {
	query := `
		SELECT game_user_id, txn_time_ms, amount_usd, product_sku, payment_channel, is_refund
		FROM payments
		WHERE game_user_id = $1
		ORDER BY txn_time_ms ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, gameUserID)
	if err != nil {
		return nil, fmt.Errorf("get payments by player: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		var p domain.Payment
		var sku, channel string

		err := rows.Scan(
			&p.GameUserID,
			&p.TimestampMs,
			&p.AmountUSD,
			&sku,
			&channel,
			&p.IsRefund,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}

		p.ProductSKU = domain.SKU(sku)
		p.Channel = domain.PaymentChannel(channel)
		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}

	return payments, nil
}

// TotalRevenue returns the sum of non-refunded amounts.
func (s *PaymentStore) TotalRevenue(ctx context.Context) (float64, error) {
	query := `SELECT coalesce(sum(amount_usd), 0) FROM payments WHERE NOT is_refund`

	var total float64
	if err := s.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("total revenue: %w", err)
	}
	return total, nil
}
