package domain

// SKU identifies a purchasable product.
type SKU string

// Product SKUs.
const (
	SKUStarterPack   SKU = "starter_pack"
	SKUBattlePass    SKU = "battle_pass"
	SKUGachaPack10   SKU = "gacha_pack_10"
	SKUGemBundleS    SKU = "gem_bundle_s"
	SKUGemBundleM    SKU = "gem_bundle_m"
	SKUGemBundleL    SKU = "gem_bundle_l"
	SKUMonthlyCard   SKU = "monthly_card"
	SKUCostumeBundle SKU = "costume_bundle"
)

// PaymentChannel is the billing rail a transaction cleared through.
type PaymentChannel string

// Payment channels.
const (
	PayChannelAppStore   PaymentChannel = "appstore"
	PayChannelGooglePlay PaymentChannel = "googleplay"
	PayChannelPayPal     PaymentChannel = "paypal"
	PayChannelCarrier    PaymentChannel = "carrier"
)

// Payment is one purchase transaction. Corresponds to one row of
// payments.csv. Amount and refund flag are computed once and never revised.
type Payment struct {
	GameUserID  string
	TimestampMs int64
	AmountUSD   float64 // rounded to 2 decimals
	ProductSKU  SKU
	Channel     PaymentChannel
	IsRefund    bool
}

// LTV holds cumulative non-refunded revenue at the four horizon cutoffs.
// Windows are half-open: a transaction counts toward D-N when
// days_since_install < N. Nested by construction: D7 <= D30 <= D60 <= D90.
type LTV struct {
	D7  float64
	D30 float64
	D60 float64
	D90 float64
}
