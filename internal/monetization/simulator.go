// Package monetization simulates purchase counts, timing, SKU selection,
// pricing, refunds and the LTV aggregates derived from them.
package monetization

import (
	"math"
	"sort"

	"mmo-analytics-lab/internal/archetype"
	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/rng"
)

const (
	hourMs = int64(60 * 60 * 1000)
	dayMs  = int64(24 * 60 * 60 * 1000)

	// Milestone proximity window for SKU context.
	milestoneWindowMs = 24 * hourMs
)

// Result is the monetization outcome for one player. All fields are computed
// once and never revised.
type Result struct {
	Payments        []domain.Payment
	LTV             domain.LTV
	NumTxnD7        int
	FirstPurchaseMs int64 // 0 when the player never paid
	LateMonetizer   bool
	FalseEarlyPayer bool
}

// Simulator draws purchase behavior from the shared generation stream.
type Simulator struct {
	stream *rng.Stream
}

// NewSimulator creates a monetization simulator.
func NewSimulator(stream *rng.Stream) *Simulator {
	return &Simulator{stream: stream}
}

// Player simulates all purchases for one player. Milestones are read-only
// input; they anchor mid-window purchase timing.
func (m *Simulator) Player(p domain.Player, prof domain.Profile, ms domain.Milestones) Result {
	res := Result{}

	// Timing-distortion flags: independent, low probability, conditioned on
	// sufficiently engaged/spendy players.
	res.LateMonetizer = prof.Spender > 0.5 && m.stream.Chance(0.08)
	res.FalseEarlyPayer = prof.Engagement > 0.5 && !res.LateMonetizer && m.stream.Chance(0.06)

	payProb := clamp(0.02+0.85*prof.Spender+0.15*prof.Engagement, 0, 1)
	if res.LateMonetizer {
		payProb *= 0.75
	}
	if !p.ConsentMarketing {
		payProb *= 0.97
	}

	if !m.stream.Chance(payProb) {
		return res
	}

	count := int(math.Round(1 + 6*prof.Spender + 2*prof.Engagement + m.stream.Normal()))
	if count < 0 {
		count = 0
	}
	if count > 18 {
		count = 18
	}
	if count == 0 {
		return res
	}

	times := m.schedule(p.InstallTimeMs, ms, count, res.LateMonetizer, res.FalseEarlyPayer)

	for _, ts := range times {
		pay := m.transaction(p, prof, ms, ts)
		res.Payments = append(res.Payments, pay)

		if res.FirstPurchaseMs == 0 || ts < res.FirstPurchaseMs {
			res.FirstPurchaseMs = ts
		}

		days := float64(ts-p.InstallTimeMs) / float64(dayMs)
		if days < 7 {
			res.NumTxnD7++
		}
		if !pay.IsRefund {
			// Half-open horizon windows: D-N collects days_since_install < N.
			if days < 7 {
				res.LTV.D7 += pay.AmountUSD
			}
			if days < 30 {
				res.LTV.D30 += pay.AmountUSD
			}
			if days < 60 {
				res.LTV.D60 += pay.AmountUSD
			}
			if days < 90 {
				res.LTV.D90 += pay.AmountUSD
			}
		}
	}

	// Amounts were accumulated in float; round the aggregates to cents too.
	res.LTV.D7 = round2(res.LTV.D7)
	res.LTV.D30 = round2(res.LTV.D30)
	res.LTV.D60 = round2(res.LTV.D60)
	res.LTV.D90 = round2(res.LTV.D90)

	return res
}

// schedule draws purchase timestamps: 55% early burst inside 48h, then
// milestone-anchored purchases when milestones exist, the rest long-tail
// across days 8-90. Late-monetizer and false-early-payer distortions reshape
// timing without changing the count. Returned sorted ascending.
func (m *Simulator) schedule(installMs int64, ms domain.Milestones, count int, late, falseEarly bool) []int64 {
	anchors := milestoneList(ms)
	times := make([]int64, 0, count)

	for i := 0; i < count; i++ {
		var ts int64
		switch {
		case falseEarly:
			if m.stream.Chance(0.80) {
				ts = installMs + int64(m.stream.Float64()*48*float64(hourMs))
			} else {
				ts = installMs + int64((3+m.stream.Float64()*7)*float64(dayMs))
			}
		case m.stream.Chance(0.55):
			ts = installMs + int64(m.stream.Float64()*48*float64(hourMs))
		case len(anchors) > 0 && m.stream.Chance(0.60):
			anchor := anchors[m.stream.IntRange(0, len(anchors)-1)]
			jitter := int64((m.stream.Float64()*2 - 1) * 6 * float64(hourMs))
			ts = anchor + jitter
			if ts < installMs {
				ts = installMs
			}
		default:
			ts = installMs + int64((8+m.stream.Float64()*82)*float64(dayMs))
		}

		if late {
			// Push anything scheduled in the first week out to days 14-60.
			if float64(ts-installMs) < 7*float64(dayMs) {
				ts = installMs + int64((14+m.stream.Float64()*46)*float64(dayMs))
			}
		}

		times = append(times, ts)
	}

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times
}

// transaction selects SKU, price, billing channel and refund flag for one
// purchase at ts.
func (m *Simulator) transaction(p domain.Player, prof domain.Profile, ms domain.Milestones, ts int64) domain.Payment {
	ctx := skuContext{
		Channel:           p.Channel,
		HoursSinceInstall: float64(ts-p.InstallTimeMs) / float64(hourMs),
		NearLevel20:       near(ts, ms.Level20Ms),
		NearDungeon:       near(ts, ms.FirstDungeonMs),
		Spender:           prof.Spender,
	}
	sku := pickSKU(m.stream, ctx)

	price := m.stream.PickFloat(priceLadders[sku])
	price *= 1 + (prof.Spender-0.5)*0.35 + archetype.CountrySpendShift[p.Country]*0.15
	price *= 1 + m.stream.Normal()*0.05
	if price < 0.99 {
		price = 0.99
	}

	channel := m.paymentChannel(p.OS)

	return domain.Payment{
		GameUserID:  p.GameUserID,
		TimestampMs: ts,
		AmountUSD:   round2(price),
		ProductSKU:  sku,
		Channel:     channel,
		IsRefund:    m.stream.Chance(refundProb(channel, sku)),
	}
}

// paymentChannel picks the billing rail: platform store dominates, with a
// small PayPal/carrier share.
func (m *Simulator) paymentChannel(os string) domain.PaymentChannel {
	r := m.stream.Float64()
	switch {
	case r < 0.85:
		if os == "ios" {
			return domain.PayChannelAppStore
		}
		return domain.PayChannelGooglePlay
	case r < 0.95:
		return domain.PayChannelPayPal
	default:
		return domain.PayChannelCarrier
	}
}

func milestoneList(ms domain.Milestones) []int64 {
	var out []int64
	for _, t := range []int64{ms.Level20Ms, ms.FirstDungeonMs, ms.FirstGuildMs} {
		if t != 0 {
			out = append(out, t)
		}
	}
	return out
}

func near(ts, milestone int64) bool {
	if milestone == 0 {
		return false
	}
	diff := ts - milestone
	return diff >= -milestoneWindowMs && diff <= milestoneWindowMs
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

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
