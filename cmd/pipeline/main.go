// Package main provides the E2E pipeline entry point.
// Executes: generation → CSV export → pLTV training (full and cold tracks) → score export.
package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"mmo-analytics-lab/internal/config"
	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/export"
	"mmo-analytics-lab/internal/gbt"
	"mmo-analytics-lab/internal/generator"
	"mmo-analytics-lab/internal/observability"
	"mmo-analytics-lab/internal/quality"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	// Phase 1: generation
	start := time.Now()
	ds := generator.Run(generatorOptions(cfg))
	observability.RecordPipelineRun("generation", "success", time.Since(start).Seconds())

	logrus.WithFields(logrus.Fields{
		"players":    len(ds.Players),
		"events":     len(ds.Events),
		"payments":   len(ds.Payments),
		"dropped":    ds.EventsDropped,
		"duplicated": ds.EventsDuplicated,
	}).Info("generation complete")

	// Phase 2: CSV export
	start = time.Now()
	if err := export.WriteDataset(cfg.OutputDir, ds); err != nil {
		observability.RecordPipelineRun("export", "error", time.Since(start).Seconds())
		logrus.WithError(err).Fatal("failed to export dataset")
	}
	observability.RecordPipelineRun("export", "success", time.Since(start).Seconds())

	// Phase 3: pLTV training and scoring, one model per feature track
	for _, track := range []string{gbt.TrackFull, gbt.TrackCold} {
		start = time.Now()
		model, err := gbt.Train(ds.Features, domain.FeatureNames, gbt.Config{
			ModelTrack:   track,
			UseLogTarget: true,
			TestSplit:    cfg.TestSplit,
			Seed:         cfg.ModelSeed,
		})
		if err != nil {
			observability.RecordPipelineRun("pltv_"+track, "error", time.Since(start).Seconds())
			logrus.WithError(err).WithField("track", track).Fatal("failed to train model")
		}
		observability.RecordModelTrained(track)

		scores := model.Score(ds.Features)
		report := model.Report()

		name := export.ScoresFile
		if track == gbt.TrackCold {
			name = "pltv_scores_cold.csv"
		}
		path := filepath.Join(cfg.OutputDir, name)
		if err := export.WriteFile(path, export.RenderScores(scores, report)); err != nil {
			logrus.WithError(err).Fatal("failed to export scores")
		}
		observability.RecordRowsExported("pltv_scores_"+track, len(scores))
		observability.RecordPipelineRun("pltv_"+track, "success", time.Since(start).Seconds())

		logrus.WithFields(logrus.Fields{
			"track":      track,
			"model_id":   report.ModelID,
			"train_size": report.TrainSize,
			"test_size":  report.TestSize,
			"mae":        report.MAE,
			"rmse":       report.RMSE,
			"r2":         report.R2,
			"file":       name,
		}).Info("model trained and scored")
	}

	logrus.WithField("output_dir", cfg.OutputDir).Info("pipeline complete")
	os.Exit(0)
}

func generatorOptions(cfg *config.Config) generator.Options {
	return generator.Options{
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
		Verbose: true,
	}
}
