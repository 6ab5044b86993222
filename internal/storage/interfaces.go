package storage

import (
	"context"

	"mmo-analytics-lab/internal/domain"
)

// PlayerStore provides access to players storage.
type PlayerStore interface {
	// Insert adds a new player. Returns ErrDuplicateKey if game_user_id exists.
	Insert(ctx context.Context, p *domain.Player) error

	// InsertBulk adds multiple players atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, players []*domain.Player) error

	// GetByID retrieves a player by game_user_id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, gameUserID string) (*domain.Player, error)

	// GetByChannel retrieves all players acquired through a channel.
	GetByChannel(ctx context.Context, channel domain.Channel) ([]*domain.Player, error)

	// GetByInstallRange retrieves players installed within [start, end] (inclusive, ms).
	GetByInstallRange(ctx context.Context, start, end int64) ([]*domain.Player, error)

	// Count returns the roster size.
	Count(ctx context.Context) (int, error)
}

// EventStore provides access to events storage. Telemetry rows have no
// unique key: exact duplicates are a legitimate data-quality defect and
// must be stored as-is.
type EventStore interface {
	// InsertBulk appends event rows. Duplicates are allowed.
	InsertBulk(ctx context.Context, events []*domain.Event) error

	// GetByPlayer retrieves all events for a player, ordered by timestamp ASC.
	GetByPlayer(ctx context.Context, gameUserID string) ([]*domain.Event, error)

	// GetByTimeRange retrieves events within [start, end] (inclusive, ms).
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.Event, error)

	// CountByName returns row counts grouped by event name.
	CountByName(ctx context.Context) (map[string]int, error)
}

// PaymentStore provides access to payments storage. Like events, duplicate
// payment rows are a deliberate corruption artifact and are stored as-is.
type PaymentStore interface {
	// InsertBulk appends payment rows. Duplicates are allowed.
	InsertBulk(ctx context.Context, payments []*domain.Payment) error

	// GetByPlayer retrieves all payments for a player, ordered by timestamp ASC.
	GetByPlayer(ctx context.Context, gameUserID string) ([]*domain.Payment, error)

	// TotalRevenue returns the sum of non-refunded amounts.
	TotalRevenue(ctx context.Context) (float64, error)
}

// UACostStore provides access to ua_costs storage.
type UACostStore interface {
	// InsertBulk adds cost rows atomically. Fails entire batch on duplicate (campaign_id, date).
	InsertBulk(ctx context.Context, rows []*domain.UACostRow) error

	// GetByCampaign retrieves all cost rows for a campaign, ordered by date ASC.
	GetByCampaign(ctx context.Context, campaignID string) ([]*domain.UACostRow, error)

	// GetAll retrieves all cost rows, ordered by campaign_id, date ASC.
	GetAll(ctx context.Context) ([]*domain.UACostRow, error)
}

// LabelStore provides access to labels storage.
type LabelStore interface {
	// Insert adds a new label row. Returns ErrDuplicateKey if game_user_id exists.
	Insert(ctx context.Context, l *domain.LabelRow) error

	// InsertBulk adds multiple label rows atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, rows []*domain.LabelRow) error

	// GetByID retrieves a label row by game_user_id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, gameUserID string) (*domain.LabelRow, error)

	// GetPayers retrieves all label rows with ltv_d90 > 0, ordered by game_user_id ASC.
	GetPayers(ctx context.Context) ([]*domain.LabelRow, error)

	// GetAll retrieves all label rows, ordered by game_user_id ASC.
	GetAll(ctx context.Context) ([]*domain.LabelRow, error)
}

// ScoreStore provides access to pltv_scores storage.
type ScoreStore interface {
	// InsertBulk adds score rows for one model run atomically.
	// Fails entire batch on duplicate (model_id, game_user_id).
	InsertBulk(ctx context.Context, modelID string, rows []*domain.ScoreRow) error

	// GetByModel retrieves all score rows for a model, ordered by game_user_id ASC.
	GetByModel(ctx context.Context, modelID string) ([]*domain.ScoreRow, error)
}
