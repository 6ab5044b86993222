// Package main generates the dataset and loads it into the warehouse:
// players, payments and labels into PostgreSQL; events and UA costs into
// ClickHouse. Schemas are applied from the embedded migrations first.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"mmo-analytics-lab/internal/config"
	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/generator"
	"mmo-analytics-lab/internal/quality"
	chstore "mmo-analytics-lab/internal/storage/clickhouse"
	"mmo-analytics-lab/internal/storage/migrations"
	"mmo-analytics-lab/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	if cfg.PostgresDSN == "" || cfg.ClickhouseDSN == "" {
		logrus.Fatal("POSTGRES_DSN and CLICKHOUSE_DSN must be set for the load command")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logrus.WithField("signal", sig).Info("cancelling load")
		cancel()
	}()

	ds := generator.Run(generator.Options{
		NumPlayers:   cfg.NumPlayers,
		TargetEvents: cfg.TargetEvents,
		Seed:         cfg.GenSeed,
		DropRate:     cfg.DropRate,
		DupRate:      cfg.DupRate,
		OOORate:      cfg.OOORate,
		Corruption: quality.Rates{
			DupEvent:     cfg.DupEventRate,
			LateEvent:    cfg.LateEventRate,
			BadTimestamp: cfg.BadTimestampRate,
			MissingID:    cfg.MissingIDRate,
			DupPayment:   cfg.DupPaymentRate,
		},
	})

	logrus.WithFields(logrus.Fields{
		"players":  len(ds.Players),
		"events":   len(ds.Events),
		"payments": len(ds.Payments),
	}).Info("dataset generated")

	if err := loadPostgres(ctx, cfg.PostgresDSN, ds); err != nil {
		logrus.WithError(err).Fatal("postgres load failed")
	}
	if err := loadClickhouse(ctx, cfg.ClickhouseDSN, ds); err != nil {
		logrus.WithError(err).Fatal("clickhouse load failed")
	}

	logrus.Info("warehouse load complete")
}

func loadPostgres(ctx context.Context, dsn string, ds *generator.Dataset) error {
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	players := make([]*domain.Player, len(ds.Players))
	for i := range ds.Players {
		players[i] = &ds.Players[i]
	}
	if err := postgres.NewPlayerStore(pool).InsertBulk(ctx, players); err != nil {
		return err
	}
	logrus.WithField("rows", len(players)).Info("players loaded")

	payments := make([]*domain.Payment, len(ds.Payments))
	for i := range ds.Payments {
		payments[i] = &ds.Payments[i]
	}
	if err := postgres.NewPaymentStore(pool).InsertBulk(ctx, payments); err != nil {
		return err
	}
	logrus.WithField("rows", len(payments)).Info("payments loaded")

	labels := make([]*domain.LabelRow, len(ds.Labels))
	for i := range ds.Labels {
		labels[i] = &ds.Labels[i]
	}
	if err := postgres.NewLabelStore(pool).InsertBulk(ctx, labels); err != nil {
		return err
	}
	logrus.WithField("rows", len(labels)).Info("labels loaded")

	return nil
}

func loadClickhouse(ctx context.Context, dsn string, ds *generator.Dataset) error {
	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	events := make([]*domain.Event, len(ds.Events))
	for i := range ds.Events {
		events[i] = &ds.Events[i]
	}
	if err := chstore.NewEventStore(conn).InsertBulk(ctx, events); err != nil {
		return err
	}
	logrus.WithField("rows", len(events)).Info("events loaded")

	costs := make([]*domain.UACostRow, len(ds.UACosts))
	for i := range ds.UACosts {
		costs[i] = &ds.UACosts[i]
	}
	if err := chstore.NewUACostStore(conn).InsertBulk(ctx, costs); err != nil {
		return err
	}
	logrus.WithField("rows", len(costs)).Info("ua costs loaded")

	return nil
}
