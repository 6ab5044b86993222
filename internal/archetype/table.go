// Package archetype defines the player archetype model and the latent-trait
// sampling that fixes each player's behavioral personality at creation.
package archetype

import "mmo-analytics-lab/internal/domain"

// Retention holds the archetype-level retention curve shape.
type Retention struct {
	Base         float64
	Decay        float64
	WeekendBoost float64
}

// Archetype is one fixed behavioral class. Priors are pre-sigmoid shifts on
// the latent scale, not probabilities.
type Archetype struct {
	ID          string
	Weight      float64
	LevelMin    int
	LevelMax    int
	GuildProb   float64
	Retention   Retention
	SpendPrior  float64
	EngagePrior float64
}

// Archetype ids.
const (
	Whale       = "whale"
	Dolphin     = "dolphin"
	Minnow      = "minnow"
	FreeEngaged = "free_engaged"
	FreeCasual  = "free_casual"
	Churned     = "churned"
)

// Table is the fixed categorical distribution over archetypes. The most
// populous archetype is kept last: selection falls back to it when
// floating-point drift leaves the cumulative draw unmatched.
var Table = []Archetype{
	{ID: Whale, Weight: 0.02, LevelMin: 20, LevelMax: 60, GuildProb: 0.70,
		Retention: Retention{Base: 0.75, Decay: 0.030, WeekendBoost: 1.25},
		SpendPrior: 1.8, EngagePrior: 1.2},
	{ID: Dolphin, Weight: 0.08, LevelMin: 15, LevelMax: 50, GuildProb: 0.55,
		Retention: Retention{Base: 0.65, Decay: 0.040, WeekendBoost: 1.20},
		SpendPrior: 0.9, EngagePrior: 0.8},
	{ID: Minnow, Weight: 0.15, LevelMin: 10, LevelMax: 40, GuildProb: 0.45,
		Retention: Retention{Base: 0.55, Decay: 0.050, WeekendBoost: 1.20},
		SpendPrior: 0.2, EngagePrior: 0.45},
	{ID: FreeEngaged, Weight: 0.20, LevelMin: 10, LevelMax: 45, GuildProb: 0.50,
		Retention: Retention{Base: 0.60, Decay: 0.045, WeekendBoost: 1.30},
		SpendPrior: -1.2, EngagePrior: 0.9},
	{ID: Churned, Weight: 0.20, LevelMin: 1, LevelMax: 10, GuildProb: 0.05,
		Retention: Retention{Base: 0.25, Decay: 0.180, WeekendBoost: 1.05},
		SpendPrior: -2.2, EngagePrior: -1.3},
	{ID: FreeCasual, Weight: 0.35, LevelMin: 3, LevelMax: 25, GuildProb: 0.20,
		Retention: Retention{Base: 0.40, Decay: 0.080, WeekendBoost: 1.15},
		SpendPrior: -1.8, EngagePrior: -0.4},
}

// ChannelSpendShift maps UA channel to a pre-sigmoid spend-latent shift.
// Paid channels, influencer above all, shift spend upward versus organic.
var ChannelSpendShift = map[domain.Channel]float64{
	domain.ChannelInfluencer: 0.25,
	domain.ChannelPaidSocial: 0.10,
	domain.ChannelPaidSearch: 0.05,
	domain.ChannelCrossPromo: 0.00,
	domain.ChannelOrganic:    -0.05,
}

// CountrySpendShift maps country to a pre-sigmoid spend-latent shift.
// Higher-ARPPU markets rank higher.
var CountrySpendShift = map[string]float64{
	"KR": 0.35,
	"JP": 0.30,
	"US": 0.20,
	"DE": 0.10,
	"GB": 0.10,
	"FR": 0.05,
	"TR": -0.10,
	"BR": -0.15,
	"PH": -0.20,
	"IN": -0.25,
}

// TierSpendShift maps device tier to a pre-sigmoid spend-latent shift.
var TierSpendShift = map[domain.DeviceTier]float64{
	domain.TierHigh: 0.20,
	domain.TierMid:  0.00,
	domain.TierLow:  -0.15,
}
