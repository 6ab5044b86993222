// Package main replays the generated event table over WebSocket.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"mmo-analytics-lab/internal/config"
	"mmo-analytics-lab/internal/generator"
	"mmo-analytics-lab/internal/quality"
	"mmo-analytics-lab/internal/stream"
)

func main() {
	speed := flag.Float64("speed", 3600, "simulated milliseconds replayed per wall-clock millisecond")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logrus.WithField("signal", sig).Info("shutting down")
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

	srv := stream.NewServer(stream.Config{
		Addr:  cfg.StreamAddr,
		Speed: *speed,
	}, ds.Events)

	if err := srv.ListenAndServe(ctx); err != nil {
		logrus.WithError(err).Fatal("replay server failed")
	}
}
