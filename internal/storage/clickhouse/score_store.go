package clickhouse

import (
	"context"
	"fmt"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

// ScoreStore implements storage.ScoreStore using ClickHouse.
type ScoreStore struct {
	conn *Conn
}

// NewScoreStore creates a new ScoreStore.
func NewScoreStore(conn *Conn) *ScoreStore {
	return &ScoreStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ScoreStore = (*ScoreStore)(nil)

// InsertBulk adds score rows for one model run atomically.
// Fails entire batch on duplicate (model_id, game_user_id).
func (s *ScoreStore) InsertBulk(ctx context.Context, modelID string, rows []*domain.ScoreRow) error {
	if modelID == "" {
		return storage.ErrInvalidInput
	}
	if len(rows) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if _, exists := seen[r.GameUserID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[r.GameUserID] = struct{}{}
	}

	// A model run writes once; a second write for the same model is a bug.
	var existing uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count(*) FROM pltv_scores WHERE model_id = ?`, modelID,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check existing model rows: %w", err)
	}
	if existing > 0 {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO pltv_scores (
			model_id, game_user_id, pltv_pred, pltv_decile, is_top_1pct, segment
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err = batch.Append(
			modelID, r.GameUserID, r.Pred,
			uint8(r.Decile), r.IsTop1Pct, r.Segment,
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

// GetByModel retrieves all score rows for a model, ordered by game_user_id ASC.
func (s *ScoreStore) GetByModel(ctx context.Context, modelID string) ([]*domain.ScoreRow, error) {
	query := `
		SELECT game_user_id, pltv_pred, pltv_decile, is_top_1pct, segment
		FROM pltv_scores
		WHERE model_id = ?
		ORDER BY game_user_id ASC
	`

	rows, err := s.conn.Query(ctx, query, modelID)
	if err != nil {
		return nil, fmt.Errorf("query by model: %w", err)
	}
	defer rows.Close()

	var result []*domain.ScoreRow
	for rows.Next() {
		var r domain.ScoreRow
		var decile uint8

		err := rows.Scan(&r.GameUserID, &r.Pred, &decile, &r.IsTop1Pct, &r.Segment)
		if err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}

		r.Decile = int(decile)
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score rows: %w", err)
	}

	return result, nil
}
