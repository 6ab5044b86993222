package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/rng"
)

func testPlayer(consentMarketing bool) (domain.Player, domain.Profile) {
	install := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC).UnixMilli()
	p := domain.Player{
		GameUserID:       "u000001",
		InstallTimeMs:    install,
		ConsentMarketing: consentMarketing,
	}
	prof := domain.Profile{
		RetentionBase:     0.8,
		RetentionDecay:    0.03,
		WeekendBoost:      1.2,
		Engagement:        0.8,
		Spender:           0.7,
		PayPropensity:     0.8,
		SocialPropensity:  0.6,
		GrindPropensity:   0.8,
		CompetePropensity: 0.5,
		GuildProb:         0.6,
		LevelMin:          15,
		LevelMax:          50,
	}
	return p, prof
}

func manyDays(n int) []int {
	days := make([]int, n)
	for i := range days {
		days[i] = i
	}
	return days
}

func TestBudget_PlayerShare(t *testing.T) {
	b := NewBudget(10000)
	assert.Equal(t, 1000, b.PlayerShare(10))

	// Floor applies when the fair share falls below it.
	b2 := NewBudget(1000)
	assert.Equal(t, minPlayerShare, b2.PlayerShare(100))

	// Last player takes whatever remains.
	assert.Equal(t, 10000, b.PlayerShare(0))
}

func TestWriter_NeverExceedsCap(t *testing.T) {
	sink := NewMemorySink()
	budget := NewBudget(50)
	w := NewWriter(sink, budget, rng.New(42), 0.1, 0.5)

	for i := 0; i < 500; i++ {
		w.Write(domain.Event{GameUserID: "u000001", Name: domain.EventCombatHit})
	}

	assert.LessOrEqual(t, len(sink.Events), 50)
	assert.Equal(t, budget.Written(), len(sink.Events))
	assert.Equal(t, 0, budget.RemainingCapacity())
}

func TestWriter_DropsConsumeNoBudget(t *testing.T) {
	sink := NewMemorySink()
	budget := NewBudget(1000)
	w := NewWriter(sink, budget, rng.New(7), 1.0, 0) // everything dropped

	for i := 0; i < 100; i++ {
		w.Write(domain.Event{Name: domain.EventCombatHit})
	}

	assert.Empty(t, sink.Events)
	assert.Equal(t, 0, budget.Written())
	assert.Equal(t, 100, w.Dropped)
}

func TestWriter_DuplicatesCountTwice(t *testing.T) {
	sink := NewMemorySink()
	budget := NewBudget(1000)
	w := NewWriter(sink, budget, rng.New(7), 0, 1.0) // everything duplicated

	for i := 0; i < 10; i++ {
		n := w.Write(domain.Event{Name: domain.EventCombatHit})
		assert.Equal(t, 2, n)
	}

	assert.Len(t, sink.Events, 20)
	assert.Equal(t, 20, budget.Written())
	assert.Equal(t, 10, w.Duplicated)
}

func TestSynthesizer_Deterministic(t *testing.T) {
	run := func() ([]domain.Event, Activity) {
		sink := NewMemorySink()
		stream := rng.New(42)
		w := NewWriter(sink, NewBudget(100000), stream, 0.01, 0.012)
		syn := NewSynthesizer(stream, w, 0.05)
		p, prof := testPlayer(true)
		act := syn.Player(p, prof, manyDays(20), 100000)
		return sink.Events, act
	}

	evA, actA := run()
	evB, actB := run()
	assert.Equal(t, evA, evB)
	assert.Equal(t, actA, actB)
}

func TestSynthesizer_TimestampsWithinSimWindow(t *testing.T) {
	sink := NewMemorySink()
	stream := rng.New(99)
	w := NewWriter(sink, NewBudget(100000), stream, 0, 0)
	syn := NewSynthesizer(stream, w, 0.05)
	p, prof := testPlayer(true)

	syn.Player(p, prof, manyDays(31), 100000)

	require.NotEmpty(t, sink.Events)
	hi := p.InstallTimeMs + 90*24*3600*1000
	for _, e := range sink.Events {
		require.GreaterOrEqual(t, e.TimestampMs, p.InstallTimeMs)
		require.LessOrEqual(t, e.TimestampMs, hi)
		require.Empty(t, e.RawTime)
		require.Equal(t, "u000001", e.GameUserID)
		require.NotEmpty(t, e.SessionID)
	}
}

func TestSynthesizer_ConsentGatesMonetizationEvents(t *testing.T) {
	sink := NewMemorySink()
	stream := rng.New(5)
	w := NewWriter(sink, NewBudget(100000), stream, 0, 0)
	syn := NewSynthesizer(stream, w, 0.05)
	p, prof := testPlayer(false)

	syn.Player(p, prof, manyDays(31), 100000)

	for _, e := range sink.Events {
		require.NotEqual(t, domain.EventGachaPull, e.Name)
		require.NotEqual(t, domain.EventShopView, e.Name)
	}
}

func TestSynthesizer_ShareCapsRowsButNotSimulation(t *testing.T) {
	sink := NewMemorySink()
	stream := rng.New(42)
	w := NewWriter(sink, NewBudget(100000), stream, 0, 0)
	syn := NewSynthesizer(stream, w, 0.05)
	p, prof := testPlayer(true)

	act := syn.Player(p, prof, manyDays(31), 30)

	// Rows are capped near the share (a duplicate write can overshoot by one).
	assert.LessOrEqual(t, len(sink.Events), 31)
	// The behavioral simulation still ran to completion.
	assert.Greater(t, act.SessionsTotal, 10)
	assert.Greater(t, act.FinalLevel, 1)
}

func TestSynthesizer_EmitsLevelUpOnEarlySpike(t *testing.T) {
	// The early level spike only fires on days 0-2 with ~9% per day for
	// this profile, so aggregate across many players.
	levelUps := 0
	for seed := int64(1); seed <= 100; seed++ {
		sink := NewMemorySink()
		stream := rng.New(seed)
		w := NewWriter(sink, NewBudget(100000), stream, 0, 0)
		syn := NewSynthesizer(stream, w, 0.05)
		p, prof := testPlayer(true)

		syn.Player(p, prof, manyDays(3), 100000)

		for _, e := range sink.Events {
			if e.Name == domain.EventLevelUp {
				levelUps++
				require.Contains(t, e.Params, "level=")
			}
		}
	}
	assert.Positive(t, levelUps)
}

func TestSynthesizer_MilestonesSetAtMostOnce(t *testing.T) {
	sink := NewMemorySink()
	stream := rng.New(1)
	w := NewWriter(sink, NewBudget(100000), stream, 0, 0)
	syn := NewSynthesizer(stream, w, 0.05)
	p, prof := testPlayer(true)

	act := syn.Player(p, prof, manyDays(31), 100000)

	guildJoins := 0
	for _, e := range sink.Events {
		if e.Name == domain.EventGuildJoin {
			guildJoins++
		}
	}
	assert.LessOrEqual(t, guildJoins, 1)
	if act.Milestones.FirstGuildMs != 0 {
		assert.Equal(t, 1, guildJoins)
	}
	// A level 15..50 archetype with heavy grind reaches 20 quickly.
	assert.NotZero(t, act.Milestones.Level20Ms)
	assert.GreaterOrEqual(t, act.MaxLevelW7, 1)
}
