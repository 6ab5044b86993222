package domain

// NoPurchaseSentinel is exported for first_purchase_time_hours when the
// player never paid.
const NoPurchaseSentinel = -1

// LabelRow is the per-player labeled feature table row. Corresponds to one
// row of labels.csv. Derived deterministically from Player + aggregated
// Payments + CPI lookup + week-1 activity summaries; never mutated after
// assembly.
type LabelRow struct {
	GameUserID  string
	InstallDate string // YYYY-MM-DD
	UACost      float64

	LTV LTV

	IsPayerByD7  bool
	IsPayerByD30 bool
	IsPayerByD60 bool
	IsPayerByD90 bool

	NumTxnD7               int
	FirstPurchaseTimeHours float64 // NoPurchaseSentinel when no purchase
	ProfitD90              float64 // LTV.D90 - UACost

	LateMonetizerFlag   bool
	FalseEarlyPayerFlag bool

	ActiveDaysW7D  int
	SessionsCntW7D int
	MaxLevelW7D    int
}

// Feature names used by the pLTV scorer.
const (
	FeatUACost          = "ua_cost"
	FeatActiveDaysW7D   = "active_days_w7d"
	FeatSessionsCntW7D  = "sessions_cnt_w7d"
	FeatMaxLevelW7D     = "max_level_w7d"
	FeatDeviceTier      = "device_tier_ordinal"
	FeatOSIsIOS         = "os_is_ios"
	FeatLTVD7           = "ltv_d7"
	FeatIsPayerByD7     = "is_payer_by_d7"
	FeatNumTxnD7        = "num_txn_d7"
	FeatFirstPurchaseHr = "first_purchase_time_hours"
)

// FeatureNames lists every model feature in export order.
var FeatureNames = []string{
	FeatUACost,
	FeatActiveDaysW7D,
	FeatSessionsCntW7D,
	FeatMaxLevelW7D,
	FeatDeviceTier,
	FeatOSIsIOS,
	FeatLTVD7,
	FeatIsPayerByD7,
	FeatNumTxnD7,
	FeatFirstPurchaseHr,
}

// FeatureRow is the flattened numeric view of a label row consumed by the
// pLTV model. Immutable, one per player.
type FeatureRow struct {
	GameUserID string
	Values     map[string]float64
	Target     float64
}
