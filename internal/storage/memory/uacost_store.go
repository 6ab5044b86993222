package memory

import (
	"context"
	"sort"
	"sync"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

type costKey struct {
	campaignID string
	date       string
}

// UACostStore is an in-memory implementation of storage.UACostStore.
type UACostStore struct {
	mu   sync.RWMutex
	data map[costKey]*domain.UACostRow
}

// NewUACostStore creates a new in-memory UA cost store.
func NewUACostStore() *UACostStore {
	return &UACostStore{
		data: make(map[costKey]*domain.UACostRow),
	}
}

// Compile-time interface check.
var _ storage.UACostStore = (*UACostStore)(nil)

// InsertBulk adds cost rows atomically. Fails entire batch on duplicate (campaign_id, date).
func (s *UACostStore) InsertBulk(_ context.Context, rows []*domain.UACostRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[costKey]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.CampaignID == "" || r.Date == "" {
			return storage.ErrInvalidInput
		}
		k := costKey{r.CampaignID, r.Date}
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
		s.data[costKey{r.CampaignID, r.Date}] = &rowCopy
	}
	return nil
}

// GetByCampaign retrieves all cost rows for a campaign, ordered by date ASC.
func (s *UACostStore) GetByCampaign(_ context.Context, campaignID string) ([]*domain.UACostRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.UACostRow
	for _, r := range s.data {
		if r.CampaignID == campaignID {
			rowCopy := *r
			result = append(result, &rowCopy)
		}
	}

	sortCosts(result)
	return result, nil
}

// GetAll retrieves all cost rows, ordered by campaign_id, date ASC.
func (s *UACostStore) GetAll(_ context.Context) ([]*domain.UACostRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.UACostRow, 0, len(s.data))
	for _, r := range s.data {
		rowCopy := *r
		result = append(result, &rowCopy)
	}

	sortCosts(result)
	return result, nil
}

func sortCosts(rows []*domain.UACostRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CampaignID != rows[j].CampaignID {
			return rows[i].CampaignID < rows[j].CampaignID
		}
		return rows[i].Date < rows[j].Date
	})
}
