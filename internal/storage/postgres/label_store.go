package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

// LabelStore implements storage.LabelStore using PostgreSQL.
type LabelStore struct {
	pool *Pool
}

// NewLabelStore creates a new LabelStore.
func NewLabelStore(pool *Pool) *LabelStore {
	return &LabelStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LabelStore = (*LabelStore)(nil)

const labelColumns = `
	game_user_id, install_date, ua_cost,
	ltv_d7, ltv_d30, ltv_d60, ltv_d90,
	is_payer_by_d7, is_payer_by_d30, is_payer_by_d60, is_payer_by_d90,
	num_txn_d7, first_purchase_time_hours, profit_d90,
	late_monetizer_flag, false_early_payer_flag,
	active_days_w7d, sessions_cnt_w7d, max_level_w7d
`

const insertLabelQuery = `
	INSERT INTO labels (
		game_user_id, install_date, ua_cost,
		ltv_d7, ltv_d30, ltv_d60, ltv_d90,
		is_payer_by_d7, is_payer_by_d30, is_payer_by_d60, is_payer_by_d90,
		num_txn_d7, first_purchase_time_hours, profit_d90,
		late_monetizer_flag, false_early_payer_flag,
		active_days_w7d, sessions_cnt_w7d, max_level_w7d
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
`

// Insert adds a new label row. Returns ErrDuplicateKey if game_user_id exists.
func (s *LabelStore) Insert(ctx context.Context, l *domain.LabelRow) error {
	_, err := s.pool.Exec(ctx, insertLabelQuery, labelArgs(l)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert label: %w", err)
	}
	return nil
}

// InsertBulk adds multiple label rows atomically. Fails entire batch on any duplicate.
func (s *LabelStore) InsertBulk(ctx context.Context, rows []*domain.LabelRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, l := range rows {
		if _, err := tx.Exec(ctx, insertLabelQuery, labelArgs(l)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert label %s: %w", l.GameUserID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit labels: %w", err)
	}
	return nil
}

// GetByID retrieves a label row by game_user_id. Returns ErrNotFound if not exists.
func (s *LabelStore) GetByID(ctx context.Context, gameUserID string) (*domain.LabelRow, error) {
	query := `SELECT ` + labelColumns + ` FROM labels WHERE game_user_id = $1`

	row := s.pool.QueryRow(ctx, query, gameUserID)
	l, err := scanLabel(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get label by id: %w", err)
	}
	return l, nil
}

// GetPayers retrieves all label rows with ltv_d90 > 0, ordered by game_user_id ASC.
func (s *LabelStore) GetPayers(ctx context.Context) ([]*domain.LabelRow, error) {
	query := `
		SELECT ` + labelColumns + `
		FROM labels
		WHERE ltv_d90 > 0
		ORDER BY game_user_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get payers: %w", err)
	}
	defer rows.Close()

	return scanLabels(rows)
}

// GetAll retrieves all label rows, ordered by game_user_id ASC.
func (s *LabelStore) GetAll(ctx context.Context) ([]*domain.LabelRow, error) {
	query := `SELECT ` + labelColumns + ` FROM labels ORDER BY game_user_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all labels: %w", err)
	}
	defer rows.Close()

	return scanLabels(rows)
}

func labelArgs(l *domain.LabelRow) []any {
	return []any{
		l.GameUserID,
		l.InstallDate,
		l.UACost,
		l.LTV.D7,
		l.LTV.D30,
		l.LTV.D60,
		l.LTV.D90,
		l.IsPayerByD7,
		l.IsPayerByD30,
		l.IsPayerByD60,
		l.IsPayerByD90,
		l.NumTxnD7,
		l.FirstPurchaseTimeHours,
		l.ProfitD90,
		l.LateMonetizerFlag,
		l.FalseEarlyPayerFlag,
		l.ActiveDaysW7D,
		l.SessionsCntW7D,
		l.MaxLevelW7D,
	}
}

// scanLabel scans a single row into a LabelRow.
func scanLabel(row pgx.Row) (*domain.LabelRow, error) {
	var l domain.LabelRow

	err := row.Scan(
		&l.GameUserID,
		&l.InstallDate,
		&l.UACost,
		&l.LTV.D7,
		&l.LTV.D30,
		&l.LTV.D60,
		&l.LTV.D90,
		&l.IsPayerByD7,
		&l.IsPayerByD30,
		&l.IsPayerByD60,
		&l.IsPayerByD90,
		&l.NumTxnD7,
		&l.FirstPurchaseTimeHours,
		&l.ProfitD90,
		&l.LateMonetizerFlag,
		&l.FalseEarlyPayerFlag,
		&l.ActiveDaysW7D,
		&l.SessionsCntW7D,
		&l.MaxLevelW7D,
	)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// scanLabels scans multiple rows into a slice of LabelRow.
func scanLabels(rows pgx.Rows) ([]*domain.LabelRow, error) {
	var labels []*domain.LabelRow

	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan label row: %w", err)
		}
		labels = append(labels, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate label rows: %w", err)
	}

	return labels, nil
}
