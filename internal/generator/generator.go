// Package generator orchestrates the full synthetic dataset pass:
// acquisition -> latents -> retention -> events -> monetization per player,
// then UA costs, label assembly and data-quality corruption.
package generator

import (
	"time"

	"github.com/sirupsen/logrus"

	"mmo-analytics-lab/internal/archetype"
	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/events"
	"mmo-analytics-lab/internal/labels"
	"mmo-analytics-lab/internal/monetization"
	"mmo-analytics-lab/internal/observability"
	"mmo-analytics-lab/internal/quality"
	"mmo-analytics-lab/internal/retention"
	"mmo-analytics-lab/internal/rng"
	"mmo-analytics-lab/internal/uacost"
)

// Simulated calendar. Installs land inside a two-week window; the cost table
// covers the same window.
var simStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

const installWindowDays = 14

// Options configures one generation run.
type Options struct {
	NumPlayers   int
	TargetEvents int
	Seed         int64

	DropRate float64
	DupRate  float64
	OOORate  float64

	Corruption quality.Rates

	Verbose bool
}

// Dataset is the complete output of one run: the six exportable tables plus
// run statistics. Events and Payments are post-corruption.
type Dataset struct {
	Players  []domain.Player
	Events   []domain.Event
	Payments []domain.Payment
	UACosts  []domain.UACostRow
	Labels   []domain.LabelRow
	Features []domain.FeatureRow

	EventsWritten    int
	EventsDropped    int
	EventsDuplicated int
}

// Run executes the full generation pass. A single stream seeded by
// opts.Seed drives every draw, so a fixed seed reproduces the dataset
// byte for byte.
func Run(opts Options) *Dataset {
	stream := rng.New(opts.Seed)

	cal := retention.Calendar{
		EventWeekStartMs: simStart.AddDate(0, 0, 10).UnixMilli(),
		EventWeekEndMs:   simStart.AddDate(0, 0, 17).UnixMilli(),
		PatchDayMs:       simStart.AddDate(0, 0, 21).Add(12 * time.Hour).UnixMilli(),
	}

	sink := events.NewMemorySink()
	budget := events.NewBudget(opts.TargetEvents)
	writer := events.NewWriter(sink, budget, stream, opts.DropRate, opts.DupRate)
	synth := events.NewSynthesizer(stream, writer, opts.OOORate)
	money := monetization.NewSimulator(stream)

	ds := &Dataset{}

	type playerOutcome struct {
		player   domain.Player
		activity events.Activity
		money    monetization.Result
	}
	outcomes := make([]playerOutcome, 0, opts.NumPlayers)

	for i := 0; i < opts.NumPlayers; i++ {
		p := newPlayer(stream, opts.Seed, i, simStart.UnixMilli(), installWindowDays)
		prof := archetype.NewProfile(stream, p.Channel, p.Country, p.DeviceTier)

		activeDays := retention.ActiveDays(stream, prof, p.InstallTimeMs, cal)

		// Fair share of whatever budget is left; the cap stops event rows,
		// never players or payments.
		share := budget.PlayerShare(opts.NumPlayers - i)
		act := synth.Player(p, prof, activeDays, share)

		mon := money.Player(p, prof, act.Milestones)

		ds.Players = append(ds.Players, p)
		ds.Payments = append(ds.Payments, mon.Payments...)
		outcomes = append(outcomes, playerOutcome{player: p, activity: act, money: mon})

		observability.RecordPlayerGenerated(prof.ArchetypeID)
		observability.RecordPayments(len(mon.Payments))

		if opts.Verbose && (i+1)%500 == 0 {
			logrus.WithFields(logrus.Fields{
				"players": i + 1,
				"events":  budget.Written(),
			}).Info("generation progress")
		}
	}

	// Independent cost tables for the install window.
	ds.UACosts = uacost.GenerateCosts(stream, simStart.UnixMilli(), installWindowDays)
	cpi := uacost.BuildCPILookup(ds.UACosts)

	for _, o := range outcomes {
		label := labels.Assemble(o.player, o.activity, o.money, cpi)
		ds.Labels = append(ds.Labels, label)
		ds.Features = append(ds.Features, labels.Features(label, o.player))
	}

	// Telemetry defects are injected after all clean generation completes.
	corruptor := quality.NewCorruptor(stream, opts.Corruption)
	ds.Events = corruptor.Events(sink.Events)
	ds.Payments = corruptor.Payments(ds.Payments)

	ds.EventsWritten = budget.Written()
	ds.EventsDropped = writer.Dropped
	ds.EventsDuplicated = writer.Duplicated

	observability.RecordEventStats(budget.Written(), writer.Dropped, writer.Duplicated)

	return ds
}
