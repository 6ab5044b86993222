package memory

import (
	"context"
	"sort"
	"sync"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

type scoreKey struct {
	modelID    string
	gameUserID string
}

// ScoreStore is an in-memory implementation of storage.ScoreStore.
type ScoreStore struct {
	mu   sync.RWMutex
	data map[scoreKey]*domain.ScoreRow
}

// NewScoreStore creates a new in-memory score store.
func NewScoreStore() *ScoreStore {
	return &ScoreStore{
		data: make(map[scoreKey]*domain.ScoreRow),
	}
}

// Compile-time interface check.
var _ storage.ScoreStore = (*ScoreStore)(nil)

// InsertBulk adds score rows for one model run atomically.
// Fails entire batch on duplicate (model_id, game_user_id).
func (s *ScoreStore) InsertBulk(_ context.Context, modelID string, rows []*domain.ScoreRow) error {
	if modelID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[scoreKey]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.GameUserID == "" {
			return storage.ErrInvalidInput
		}
		k := scoreKey{modelID, r.GameUserID}
		if _, dup := seen[k]; dup {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, r := range rows {
		rowCopy := *r
		s.data[scoreKey{modelID, r.GameUserID}] = &rowCopy
	}
	return nil
}

// GetByModel retrieves all score rows for a model, ordered by game_user_id ASC.
func (s *ScoreStore) GetByModel(_ context.Context, modelID string) ([]*domain.ScoreRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ScoreRow
	for k, r := range s.data {
		if k.modelID == modelID {
			rowCopy := *r
			result = append(result, &rowCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].GameUserID < result[j].GameUserID
	})
	return result, nil
}
