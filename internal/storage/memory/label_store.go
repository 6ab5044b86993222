package memory

import (
	"context"
	"sort"
	"sync"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

// LabelStore is an in-memory implementation of storage.LabelStore.
type LabelStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LabelRow // keyed by game_user_id
}

// NewLabelStore creates a new in-memory label store.
func NewLabelStore() *LabelStore {
	return &LabelStore{
		data: make(map[string]*domain.LabelRow),
	}
}

// Compile-time interface check.
var _ storage.LabelStore = (*LabelStore)(nil)

// Insert adds a new label row. Returns ErrDuplicateKey if game_user_id exists.
func (s *LabelStore) Insert(_ context.Context, l *domain.LabelRow) error {
	if l == nil || l.GameUserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[l.GameUserID]; exists {
		return storage.ErrDuplicateKey
	}

	labelCopy := *l
	s.data[l.GameUserID] = &labelCopy
	return nil
}

// InsertBulk adds multiple label rows atomically. Fails entire batch on any duplicate.
func (s *LabelStore) InsertBulk(_ context.Context, rows []*domain.LabelRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(rows))
	for _, l := range rows {
		if l == nil || l.GameUserID == "" {
			return storage.ErrInvalidInput
		}
		if _, dup := seen[l.GameUserID]; dup {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[l.GameUserID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[l.GameUserID] = struct{}{}
	}

	for _, l := range rows {
		labelCopy := *l
		s.data[l.GameUserID] = &labelCopy
	}
	return nil
}

// GetByID retrieves a label row by game_user_id. Returns ErrNotFound if not exists.
func (s *LabelStore) GetByID(_ context.Context, gameUserID string) (*domain.LabelRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, exists := s.data[gameUserID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	labelCopy := *l
	return &labelCopy, nil
}

// GetPayers retrieves all label rows with ltv_d90 > 0, ordered by game_user_id ASC.
func (s *LabelStore) GetPayers(_ context.Context) ([]*domain.LabelRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LabelRow
	for _, l := range s.data {
		if l.LTV.D90 > 0 {
			labelCopy := *l
			result = append(result, &labelCopy)
		}
	}

	sortLabels(result)
	return result, nil
}

// GetAll retrieves all label rows, ordered by game_user_id ASC.
func (s *LabelStore) GetAll(_ context.Context) ([]*domain.LabelRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.LabelRow, 0, len(s.data))
	for _, l := range s.data {
		labelCopy := *l
		result = append(result, &labelCopy)
	}

	sortLabels(result)
	return result, nil
}

func sortLabels(rows []*domain.LabelRow) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].GameUserID < rows[j].GameUserID
	})
}
