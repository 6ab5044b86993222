package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"mmo-analytics-lab/internal/generator"
	"mmo-analytics-lab/internal/observability"
)

// Output file names.
const (
	PlayersFile  = "players.csv"
	EventsFile   = "events.csv"
	PaymentsFile = "payments.csv"
	UACostsFile  = "ua_costs.csv"
	LabelsFile   = "labels.csv"
	ScoresFile   = "pltv_scores.csv"
)

// WriteDataset writes the six generation tables to dir. Each file lands via
// a temp-file rename so a failed run never leaves a truncated table behind.
func WriteDataset(dir string, ds *generator.Dataset) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tables := []struct {
		name string
		body string
		rows int
	}{
		{PlayersFile, RenderPlayers(ds.Players), len(ds.Players)},
		{EventsFile, RenderEvents(ds.Events), len(ds.Events)},
		{PaymentsFile, RenderPayments(ds.Payments), len(ds.Payments)},
		{UACostsFile, RenderUACosts(ds.UACosts), len(ds.UACosts)},
		{LabelsFile, RenderLabels(ds.Labels), len(ds.Labels)},
	}

	for _, t := range tables {
		if err := WriteFile(filepath.Join(dir, t.name), t.body); err != nil {
			return err
		}
		observability.RecordRowsExported(strings.TrimSuffix(t.name, ".csv"), t.rows)
		logrus.WithFields(logrus.Fields{
			"file": t.name,
			"rows": t.rows,
		}).Info("table exported")
	}

	return nil
}

// WriteFile writes content atomically: temp file in the target directory,
// then rename over the final path.
func WriteFile(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
