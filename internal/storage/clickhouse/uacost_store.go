package clickhouse

import (
	"context"
	"fmt"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

// UACostStore implements storage.UACostStore using ClickHouse.
type UACostStore struct {
	conn *Conn
}

// NewUACostStore creates a new UACostStore.
func NewUACostStore(conn *Conn) *UACostStore {
	return &UACostStore{conn: conn}
}

// Compile-time interface check.
var _ storage.UACostStore = (*UACostStore)(nil)

// InsertBulk adds cost rows atomically. Fails entire batch on duplicate (campaign_id, date).
func (s *UACostStore) InsertBulk(ctx context.Context, rows []*domain.UACostRow) error {
	if len(rows) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		campaignID string
		date       string
	}
	seen := make(map[key]struct{})
	for _, r := range rows {
		k := key{r.CampaignID, r.Date}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// MergeTree does not enforce uniqueness, so check existing rows first
	for _, r := range rows {
		exists, err := s.exists(ctx, r.CampaignID, r.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO ua_costs (
			campaign_id, date, spend, impressions, clicks, installs
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err = batch.Append(
			r.CampaignID, r.Date, r.Spend,
			uint32(r.Impressions), uint32(r.Clicks), uint32(r.Installs),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByCampaign retrieves all cost rows for a campaign, ordered by date ASC.
func (s *UACostStore) GetByCampaign(ctx context.Context, campaignID string) ([]*domain.UACostRow, error) {
	query := `
		SELECT campaign_id, date, spend, impressions, clicks, installs
		FROM ua_costs
		WHERE campaign_id = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("query by campaign: %w", err)
	}
	defer rows.Close()

	return scanUACosts(rows)
}

// GetAll retrieves all cost rows, ordered by campaign_id, date ASC.
func (s *UACostStore) GetAll(ctx context.Context) ([]*domain.UACostRow, error) {
	query := `
		SELECT campaign_id, date, spend, impressions, clicks, installs
		FROM ua_costs
		ORDER BY campaign_id ASC, date ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	defer rows.Close()

	return scanUACosts(rows)
}

// exists checks if a row with the given key exists.
func (s *UACostStore) exists(ctx context.Context, campaignID, date string) (bool, error) {
	query := `SELECT count(*) FROM ua_costs WHERE campaign_id = ? AND date = ?`

	var count uint64
	err := s.conn.QueryRow(ctx, query, campaignID, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanUACosts scans multiple rows.
func scanUACosts(rows chRows) ([]*domain.UACostRow, error) {
	var result []*domain.UACostRow

	for rows.Next() {
		var r domain.UACostRow
		var impressions, clicks, installs uint32

		err := rows.Scan(
			&r.CampaignID, &r.Date, &r.Spend,
			&impressions, &clicks, &installs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ua cost row: %w", err)
		}

		r.Impressions = int(impressions)
		r.Clicks = int(clicks)
		r.Installs = int(installs)
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ua cost rows: %w", err)
	}

	return result, nil
}
