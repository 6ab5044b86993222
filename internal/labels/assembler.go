// Package labels joins players, behavioral aggregates, monetization results
// and the CPI lookup into the labeled feature table.
package labels

import (
	"math"
	"time"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/events"
	"mmo-analytics-lab/internal/monetization"
)

// Assemble builds the label row for one player. Pure function of its inputs;
// the row is never mutated afterwards.
func Assemble(p domain.Player, act events.Activity, money monetization.Result, cpi map[domain.CPIKey]float64) domain.LabelRow {
	installDate := time.UnixMilli(p.InstallTimeMs).UTC().Format("2006-01-02")

	// Consent-withheld installs carry the "unknown" campaign, which has no
	// cost rows; the lookup then reads zero.
	uaCost := cpi[domain.CPIKey{CampaignID: p.CampaignID, Date: installDate}]

	firstPurchaseHours := float64(domain.NoPurchaseSentinel)
	if money.FirstPurchaseMs > 0 {
		firstPurchaseHours = round2(float64(money.FirstPurchaseMs-p.InstallTimeMs) / 3600000.0)
	}

	return domain.LabelRow{
		GameUserID:  p.GameUserID,
		InstallDate: installDate,
		UACost:      round2(uaCost),

		LTV: money.LTV,

		IsPayerByD7:  money.LTV.D7 > 0,
		IsPayerByD30: money.LTV.D30 > 0,
		IsPayerByD60: money.LTV.D60 > 0,
		IsPayerByD90: money.LTV.D90 > 0,

		NumTxnD7:               money.NumTxnD7,
		FirstPurchaseTimeHours: firstPurchaseHours,
		ProfitD90:              round2(money.LTV.D90 - uaCost),

		LateMonetizerFlag:   money.LateMonetizer,
		FalseEarlyPayerFlag: money.FalseEarlyPayer,

		ActiveDaysW7D:  act.ActiveDaysW7,
		SessionsCntW7D: act.SessionsW7,
		MaxLevelW7D:    act.MaxLevelW7,
	}
}

// Features flattens a label row into the numeric view the pLTV model
// consumes: device tier as ordinal, OS as binary, booleans as 0/1.
// Target is D90 revenue.
func Features(label domain.LabelRow, p domain.Player) domain.FeatureRow {
	tier := 0.0
	switch p.DeviceTier {
	case domain.TierMid:
		tier = 1
	case domain.TierHigh:
		tier = 2
	}

	osIsIOS := 0.0
	if p.OS == "ios" {
		osIsIOS = 1
	}

	payerD7 := 0.0
	if label.IsPayerByD7 {
		payerD7 = 1
	}

	return domain.FeatureRow{
		GameUserID: label.GameUserID,
		Values: map[string]float64{
			domain.FeatUACost:          label.UACost,
			domain.FeatActiveDaysW7D:   float64(label.ActiveDaysW7D),
			domain.FeatSessionsCntW7D:  float64(label.SessionsCntW7D),
			domain.FeatMaxLevelW7D:     float64(label.MaxLevelW7D),
			domain.FeatDeviceTier:      tier,
			domain.FeatOSIsIOS:         osIsIOS,
			domain.FeatLTVD7:           label.LTV.D7,
			domain.FeatIsPayerByD7:     payerD7,
			domain.FeatNumTxnD7:        float64(label.NumTxnD7),
			domain.FeatFirstPurchaseHr: label.FirstPurchaseTimeHours,
		},
		Target: label.LTV.D90,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
