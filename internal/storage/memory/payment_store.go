package memory

import (
	"context"
	"sort"
	"sync"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

// PaymentStore is an in-memory implementation of storage.PaymentStore.
// Append-only; duplicated payment rows are kept as-is.
type PaymentStore struct {
	mu   sync.RWMutex
	rows []domain.Payment
}

// NewPaymentStore creates a new in-memory payment store.
func NewPaymentStore() *PaymentStore {
	return &PaymentStore{}
}

// Compile-time interface check.
var _ storage.PaymentStore = (*PaymentStore)(nil)

// InsertBulk appends payment rows. Duplicates are allowed.
func (s *PaymentStore) InsertBulk(_ context.Context, payments []*domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range payments {
		if p == nil {
			return storage.ErrInvalidInput
		}
		s.rows = append(s.rows, *p)
	}
	return nil
}

// GetByPlayer retrieves all payments for a player, ordered by timestamp ASC.
func (s *PaymentStore) GetByPlayer(_ context.Context, gameUserID string) ([]*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Payment
	for i := range s.rows {
		if s.rows[i].GameUserID == gameUserID {
			paymentCopy := s.rows[i]
			result = append(result, &paymentCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})
	return result, nil
}

// TotalRevenue returns the sum of non-refunded amounts.
func (s *PaymentStore) TotalRevenue(_ context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for i := range s.rows {
		if !s.rows[i].IsRefund {
			total += s.rows[i].AmountUSD
		}
	}
	return total, nil
}
