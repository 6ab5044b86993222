package archetype

import (
	"math"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/rng"
)

// Jitter scales for per-player idiosyncratic retention.
const (
	baseJitterScale    = 0.06
	decayJitterScale   = 0.01
	weekendJitterScale = 0.05
)

// Select draws an archetype from the cumulative weight distribution.
// Weights are renormalized against their actual sum so an edited table that
// sums to less than 1 still covers every draw; if floating-point drift leaves
// no bucket matched, the last (most populous) archetype is returned.
func Select(stream *rng.Stream) Archetype {
	total := 0.0
	for _, a := range Table {
		total += a.Weight
	}

	draw := stream.Float64() * total
	cum := 0.0
	for _, a := range Table {
		cum += a.Weight
		if draw < cum {
			return a
		}
	}
	return Table[len(Table)-1]
}

// NewProfile samples a player's fixed personality: archetype, jittered
// retention parameters, latent traits and derived propensities. Draw order is
// fixed; every call consumes the same number of stream draws.
func NewProfile(stream *rng.Stream, channel domain.Channel, country string, tier domain.DeviceTier) domain.Profile {
	a := Select(stream)

	// Idiosyncratic retention jitter, clamped to safe ranges.
	base := clamp(a.Retention.Base+stream.Normal()*baseJitterScale, 0.05, 0.99)
	decay := clamp(a.Retention.Decay+stream.Normal()*decayJitterScale, 0.005, 0.35)
	weekend := clamp(a.Retention.WeekendBoost+stream.Normal()*weekendJitterScale, 1.0, 1.4)

	// Latents: archetype prior + noise (+ covariate shifts for spend),
	// squashed through the logistic link.
	engage := clamp(sigmoid(a.EngagePrior+stream.Normal()*0.35), 0, 1)
	spendRaw := a.SpendPrior + stream.Normal()*0.45 +
		ChannelSpendShift[channel] + CountrySpendShift[country] + TierSpendShift[tier]
	spend := clamp(sigmoid(spendRaw), 0, 1)

	// Propensities: fixed linear combinations of the latents plus noise.
	pay := clamp(0.15*engage+0.80*spend+stream.Normal()*0.05, 0, 1)
	social := clamp(0.70*engage+0.10*spend+stream.Normal()*0.10, 0, 1)
	grind := clamp(0.85*engage+stream.Normal()*0.08, 0, 1)
	compete := clamp(0.50*engage+0.20*spend+stream.Normal()*0.12, 0, 1)

	return domain.Profile{
		ArchetypeID:       a.ID,
		RetentionBase:     base,
		RetentionDecay:    decay,
		WeekendBoost:      weekend,
		Engagement:        engage,
		Spender:           spend,
		PayPropensity:     pay,
		SocialPropensity:  social,
		GrindPropensity:   grind,
		CompetePropensity: compete,
		GuildProb:         a.GuildProb,
		LevelMin:          a.LevelMin,
		LevelMax:          a.LevelMax,
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
