// Package main generates the synthetic dataset and writes the five
// generation-side CSV tables. Scoring has its own command.
package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"mmo-analytics-lab/internal/config"
	"mmo-analytics-lab/internal/export"
	"mmo-analytics-lab/internal/generator"
	"mmo-analytics-lab/internal/quality"
)

func main() {
	verbose := flag.Bool("verbose", false, "log per-batch generation progress")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

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
		Verbose: *verbose,
	})

	logrus.WithFields(logrus.Fields{
		"players":        len(ds.Players),
		"events":         len(ds.Events),
		"events_written": ds.EventsWritten,
		"dropped":        ds.EventsDropped,
		"duplicated":     ds.EventsDuplicated,
		"payments":       len(ds.Payments),
		"labels":         len(ds.Labels),
	}).Info("generation complete")

	if err := export.WriteDataset(cfg.OutputDir, ds); err != nil {
		logrus.WithError(err).Fatal("failed to export dataset")
	}

	logrus.WithField("output_dir", cfg.OutputDir).Info("dataset exported")
}
