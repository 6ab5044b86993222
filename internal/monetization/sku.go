package monetization

import (
	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/rng"
)

// skuContext carries everything the SKU policy may condition on for one
// transaction.
type skuContext struct {
	Channel           domain.Channel
	HoursSinceInstall float64
	NearLevel20       bool
	NearDungeon       bool
	Spender           float64
}

// skuRule is one entry of the prioritized SKU selection chain: when the
// predicate holds, the outcome fires with the given probability, otherwise
// evaluation falls through to the next rule.
type skuRule struct {
	applies func(skuContext) bool
	prob    float64
	sku     domain.SKU
}

var always = func(skuContext) bool { return true }

// skuRules is evaluated top-down: context-specific SKUs take priority over
// the generic monthly-card -> gacha -> gem-bundle fallbacks.
var skuRules = []skuRule{
	{func(c skuContext) bool { return c.Channel == domain.ChannelInfluencer }, 0.35, domain.SKUCostumeBundle},
	{func(c skuContext) bool { return c.HoursSinceInstall <= 48 }, 0.50, domain.SKUStarterPack},
	{func(c skuContext) bool { return c.NearLevel20 }, 0.45, domain.SKUBattlePass},
	{func(c skuContext) bool { return c.NearDungeon }, 0.40, domain.SKUGachaPack10},
	{func(c skuContext) bool { return c.Spender > 0.75 }, 0.50, domain.SKUGemBundleL},
	{always, 0.30, domain.SKUMonthlyCard},
	{always, 0.40, domain.SKUGachaPack10},
}

// pickSKU walks the rule chain. The terminal default is a gem bundle sized
// by the spender latent, so selection can never leave a transaction without
// a product.
func pickSKU(stream *rng.Stream, ctx skuContext) domain.SKU {
	for _, r := range skuRules {
		if r.applies(ctx) && stream.Chance(r.prob) {
			return r.sku
		}
	}
	switch {
	case ctx.Spender > 0.7:
		return domain.SKUGemBundleL
	case ctx.Spender > 0.4:
		return domain.SKUGemBundleM
	default:
		return domain.SKUGemBundleS
	}
}

// priceLadders holds the fixed price points per SKU.
var priceLadders = map[domain.SKU][]float64{
	domain.SKUStarterPack:   {0.99, 4.99},
	domain.SKUBattlePass:    {9.99},
	domain.SKUGachaPack10:   {9.99, 29.99},
	domain.SKUGemBundleS:    {4.99, 9.99},
	domain.SKUGemBundleM:    {19.99, 49.99},
	domain.SKUGemBundleL:    {99.99, 199.99},
	domain.SKUMonthlyCard:   {4.99},
	domain.SKUCostumeBundle: {14.99, 24.99},
}

// refund probability adjustments. Capped at 8% overall.
const (
	refundBase    = 0.01
	refundCeiling = 0.08
)

var refundChannelBump = map[domain.PaymentChannel]float64{
	domain.PayChannelPayPal:  0.020,
	domain.PayChannelCarrier: 0.030,
}

var refundSKUBump = map[domain.SKU]float64{
	domain.SKUGachaPack10: 0.015,
	domain.SKUGemBundleS:  0.010,
	domain.SKUGemBundleM:  0.010,
	domain.SKUGemBundleL:  0.010,
}

func refundProb(channel domain.PaymentChannel, sku domain.SKU) float64 {
	p := refundBase + refundChannelBump[channel] + refundSKUBump[sku]
	if p > refundCeiling {
		p = refundCeiling
	}
	return p
}
