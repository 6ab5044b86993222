// Package config loads generation settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all generation and training knobs. Defaults reproduce the
// reference dataset (seed 42, 2000 players, 100k event cap).
type Config struct {
	// Generation
	NumPlayers   int   `env:"GEN_NUM_PLAYERS" envDefault:"2000"`
	TargetEvents int   `env:"GEN_TARGET_EVENTS" envDefault:"100000"`
	GenSeed      int64 `env:"GEN_SEED" envDefault:"42"`

	// Event sink behavior
	DropRate float64 `env:"GEN_DROP_RATE" envDefault:"0.01"`
	DupRate  float64 `env:"GEN_DUP_RATE" envDefault:"0.012"`
	OOORate  float64 `env:"GEN_OOO_RATE" envDefault:"0.05"`

	// Data-quality corruption rates, relative to pre-corruption table size.
	DupEventRate      float64 `env:"CORRUPT_DUP_EVENT_RATE" envDefault:"0.03"`
	LateEventRate     float64 `env:"CORRUPT_LATE_EVENT_RATE" envDefault:"0.015"`
	BadTimestampRate  float64 `env:"CORRUPT_BAD_TS_RATE" envDefault:"0.005"`
	MissingIDRate     float64 `env:"CORRUPT_MISSING_ID_RATE" envDefault:"0.003"`
	DupPaymentRate    float64 `env:"CORRUPT_DUP_PAYMENT_RATE" envDefault:"0.02"`

	// Model training
	ModelSeed int64   `env:"MODEL_SEED" envDefault:"777"`
	TestSplit float64 `env:"MODEL_TEST_SPLIT" envDefault:"0.2"`

	// Output
	OutputDir string `env:"OUTPUT_DIR" envDefault:"out"`

	// Warehouse DSNs, used only by the load command.
	PostgresDSN   string `env:"POSTGRES_DSN"`
	ClickhouseDSN string `env:"CLICKHOUSE_DSN"`

	// Stream server
	StreamAddr string `env:"STREAM_ADDR" envDefault:":8090"`
}

// Load reads configuration from the environment, consulting a .env file
// first when one exists (local development convenience).
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		logrus.Info("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.NumPlayers <= 0 {
		return fmt.Errorf("GEN_NUM_PLAYERS must be positive, got %d", c.NumPlayers)
	}
	if c.TargetEvents <= 0 {
		return fmt.Errorf("GEN_TARGET_EVENTS must be positive, got %d", c.TargetEvents)
	}
	if c.TestSplit <= 0 || c.TestSplit >= 1 {
		return fmt.Errorf("MODEL_TEST_SPLIT must be in (0,1), got %f", c.TestSplit)
	}
	for name, rate := range map[string]float64{
		"GEN_DROP_RATE":            c.DropRate,
		"GEN_DUP_RATE":             c.DupRate,
		"GEN_OOO_RATE":             c.OOORate,
		"CORRUPT_DUP_EVENT_RATE":   c.DupEventRate,
		"CORRUPT_LATE_EVENT_RATE":  c.LateEventRate,
		"CORRUPT_BAD_TS_RATE":      c.BadTimestampRate,
		"CORRUPT_MISSING_ID_RATE":  c.MissingIDRate,
		"CORRUPT_DUP_PAYMENT_RATE": c.DupPaymentRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s must be in [0,1], got %f", name, rate)
		}
	}
	return nil
}
