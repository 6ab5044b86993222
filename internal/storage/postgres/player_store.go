package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/storage"
)

// PlayerStore implements storage.PlayerStore using PostgreSQL.
type PlayerStore struct {
	pool *Pool
}

// NewPlayerStore creates a new PlayerStore.
func NewPlayerStore(pool *Pool) *PlayerStore {
	return &PlayerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PlayerStore = (*PlayerStore)(nil)

const playerColumns = `
	game_user_id, install_id, install_time_ms, campaign_id, adset_id, creative_id,
	channel, country, os, device_model, device_tier, consent_tracking, consent_marketing
`

const insertPlayerQuery = `
	INSERT INTO players (
		game_user_id, install_id, install_time_ms, campaign_id, adset_id, creative_id,
		channel, country, os, device_model, device_tier, consent_tracking, consent_marketing
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

// Insert adds a new player. Returns ErrDuplicateKey if game_user_id exists.
func (s *PlayerStore) Insert(ctx context.Context, p *domain.Player) error {
	_, err := s.pool.Exec(ctx, insertPlayerQuery, playerArgs(p)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

// InsertBulk adds multiple players atomically. Fails entire batch on any duplicate.
func (s *PlayerStore) InsertBulk(ctx context.Context, players []*domain.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range players {
		if _, err := tx.Exec(ctx, insertPlayerQuery, playerArgs(p)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert player %s: %w", p.GameUserID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit players: %w", err)
	}
	return nil
}

// GetByID retrieves a player by game_user_id. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByID(ctx context.Context, gameUserID string) (*domain.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE game_user_id = $1`

	row := s.pool.QueryRow(ctx, query, gameUserID)
	p, err := scanPlayer(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get player by id: %w", err)
	}
	return p, nil
}

// GetByChannel retrieves all players acquired through a channel.
func (s *PlayerStore) GetByChannel(ctx context.Context, channel domain.Channel) ([]*domain.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE channel = $1
		ORDER BY install_time_ms ASC, game_user_id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(channel))
	if err != nil {
		return nil, fmt.Errorf("get players by channel: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// GetByInstallRange retrieves players installed within [start, end] (inclusive, ms).
func (s *PlayerStore) GetByInstallRange(ctx context.Context, start, end int64) ([]*domain.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE install_time_ms >= $1 AND install_time_ms <= $2
		ORDER BY install_time_ms ASC, game_user_id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get players by install range: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// Count returns the roster size.
func (s *PlayerStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return count, nil
}

func playerArgs(p *domain.Player) []any {
	return []any{
		p.GameUserID,
		p.InstallID,
		p.InstallTimeMs,
		p.CampaignID,
		p.AdsetID,
		p.CreativeID,
		string(p.Channel),
		p.Country,
		p.OS,
		p.DeviceModel,
		string(p.DeviceTier),
		p.ConsentTracking,
		p.ConsentMarketing,
	}
}

// scanPlayer scans a single row into a Player.
func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	var channel, tier string

	err := row.Scan(
		&p.GameUserID,
		&p.InstallID,
		&p.InstallTimeMs,
		&p.CampaignID,
		&p.AdsetID,
		&p.CreativeID,
		&channel,
		&p.Country,
		&p.OS,
		&p.DeviceModel,
		&tier,
		&p.ConsentTracking,
		&p.ConsentMarketing,
	)
	if err != nil {
		return nil, err
	}

	p.Channel = domain.Channel(channel)
	p.DeviceTier = domain.DeviceTier(tier)
	return &p, nil
}

// scanPlayers scans multiple rows into a slice of Player.
func scanPlayers(rows pgx.Rows) ([]*domain.Player, error) {
	var players []*domain.Player

	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player row: %w", err)
		}
		players = append(players, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player rows: %w", err)
	}

	return players, nil
}
