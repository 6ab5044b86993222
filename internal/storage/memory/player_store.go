// Package memory provides in-memory store implementations, used by the
// single-process pipeline and as the reference behavior for the database
// backends.
package memory

import (
	"context"
	"sort"
	"sync"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

// PlayerStore is an in-memory implementation of storage.PlayerStore.
type PlayerStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Player // keyed by game_user_id
}

// NewPlayerStore creates a new in-memory player store.
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		data: make(map[string]*domain.Player),
	}
}

// Compile-time interface check.
var _ storage.PlayerStore = (*PlayerStore)(nil)

// Insert adds a new player. Returns ErrDuplicateKey if game_user_id exists.
func (s *PlayerStore) Insert(_ context.Context, p *domain.Player) error {
	if p == nil || p.GameUserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.GameUserID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	playerCopy := *p
	s.data[p.GameUserID] = &playerCopy
	return nil
}

// InsertBulk adds multiple players atomically. Fails entire batch on any duplicate.
func (s *PlayerStore) InsertBulk(_ context.Context, players []*domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if p == nil || p.GameUserID == "" {
			return storage.ErrInvalidInput
		}
		if _, dup := seen[p.GameUserID]; dup {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[p.GameUserID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[p.GameUserID] = struct{}{}
	}

	for _, p := range players {
		playerCopy := *p
		s.data[p.GameUserID] = &playerCopy
	}
	return nil
}

// GetByID retrieves a player by game_user_id. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByID(_ context.Context, gameUserID string) (*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[gameUserID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	playerCopy := *p
	return &playerCopy, nil
}

// GetByChannel retrieves all players acquired through a channel.
func (s *PlayerStore) GetByChannel(_ context.Context, channel domain.Channel) ([]*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Player
	for _, p := range s.data {
		if p.Channel == channel {
			playerCopy := *p
			result = append(result, &playerCopy)
		}
	}

	sortPlayers(result)
	return result, nil
}

// GetByInstallRange retrieves players installed within [start, end] (inclusive, ms).
func (s *PlayerStore) GetByInstallRange(_ context.Context, start, end int64) ([]*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Player
	for _, p := range s.data {
		if p.InstallTimeMs >= start && p.InstallTimeMs <= end {
			playerCopy := *p
			result = append(result, &playerCopy)
		}
	}

	sortPlayers(result)
	return result, nil
}

// Count returns the roster size.
func (s *PlayerStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

// sortPlayers orders by install time, then id for stable results.
func sortPlayers(players []*domain.Player) {
	sort.Slice(players, func(i, j int) bool {
		if players[i].InstallTimeMs != players[j].InstallTimeMs {
			return players[i].InstallTimeMs < players[j].InstallTimeMs
		}
		return players[i].GameUserID < players[j].GameUserID
	})
}
