// Package export renders the six dataset tables as CSV and writes them to
// disk. Rendering is plain string building; every table carries a mandatory
// header row and UTF-8 text.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"mmo-analytics-lab/internal/domain"
)

// Timestamp formats. Install times are stored millisecond-stripped, so their
// rendering omits the fractional part; event and payment times keep it.
const (
	installTimeLayout = "2006-01-02T15:04:05Z"
	eventTimeLayout   = "2006-01-02T15:04:05.000Z"
)

func isoSeconds(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(installTimeLayout)
}

func isoMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(eventTimeLayout)
}

// RenderPlayers renders the player roster as CSV string.
func RenderPlayers(players []domain.Player) string {
	var sb strings.Builder

	// Header
	sb.WriteString("game_user_id,install_id,install_time,campaign_id,adset_id,creative_id,")
	sb.WriteString("channel,country,os,device_model,device_tier,consent_tracking,consent_marketing\n")

	// Rows
	for _, p := range players {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%t,%t\n",
			p.GameUserID,
			p.InstallID,
			isoSeconds(p.InstallTimeMs),
			p.CampaignID,
			p.AdsetID,
			p.CreativeID,
			p.Channel,
			p.Country,
			p.OS,
			csvField(p.DeviceModel),
			p.DeviceTier,
			p.ConsentTracking,
			p.ConsentMarketing,
		))
	}

	return sb.String()
}

// RenderEvents renders the telemetry table as CSV string. A corrupted row's
// RawTime replaces the formatted timestamp verbatim.
func RenderEvents(events []domain.Event) string {
	var sb strings.Builder

	sb.WriteString("game_user_id,event_time,event_name,session_id,params\n")

	for _, e := range events {
		ts := isoMillis(e.TimestampMs)
		if e.RawTimeSet {
			ts = e.RawTime
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s\n",
			e.GameUserID,
			ts,
			e.Name,
			e.SessionID,
			e.Params,
		))
	}

	return sb.String()
}

// RenderPayments renders the payment table as CSV string.
func RenderPayments(payments []domain.Payment) string {
	var sb strings.Builder

	sb.WriteString("game_user_id,txn_time,amount_usd,product_sku,payment_channel,is_refund\n")

	for _, p := range payments {
		sb.WriteString(fmt.Sprintf("%s,%s,%.2f,%s,%s,%t\n",
			p.GameUserID,
			isoMillis(p.TimestampMs),
			p.AmountUSD,
			p.ProductSKU,
			p.Channel,
			p.IsRefund,
		))
	}

	return sb.String()
}

// RenderUACosts renders the ad-spend table as CSV string.
func RenderUACosts(rows []domain.UACostRow) string {
	var sb strings.Builder

	sb.WriteString("campaign_id,date,spend,impressions,clicks,installs\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%.2f,%d,%d,%d\n",
			r.CampaignID,
			r.Date,
			r.Spend,
			r.Impressions,
			r.Clicks,
			r.Installs,
		))
	}

	return sb.String()
}

// RenderLabels renders the labeled feature table as CSV string.
func RenderLabels(rows []domain.LabelRow) string {
	var sb strings.Builder

	sb.WriteString("game_user_id,install_date,ua_cost,ltv_d7,ltv_d30,ltv_d60,ltv_d90,")
	sb.WriteString("is_payer_by_d7,is_payer_by_d30,is_payer_by_d60,is_payer_by_d90,")
	sb.WriteString("num_txn_d7,first_purchase_time_hours,profit_d90,")
	sb.WriteString("late_monetizer_flag,false_early_payer_flag,")
	sb.WriteString("active_days_w7d,sessions_cnt_w7d,max_level_w7d\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%.2f,%.2f,%.2f,%.2f,%.2f,%t,%t,%t,%t,%d,%s,%.2f,%t,%t,%d,%d,%d\n",
			r.GameUserID,
			r.InstallDate,
			r.UACost,
			r.LTV.D7,
			r.LTV.D30,
			r.LTV.D60,
			r.LTV.D90,
			r.IsPayerByD7,
			r.IsPayerByD30,
			r.IsPayerByD60,
			r.IsPayerByD90,
			r.NumTxnD7,
			firstPurchaseField(r.FirstPurchaseTimeHours),
			r.ProfitD90,
			r.LateMonetizerFlag,
			r.FalseEarlyPayerFlag,
			r.ActiveDaysW7D,
			r.SessionsCntW7D,
			r.MaxLevelW7D,
		))
	}

	return sb.String()
}

// RenderScores renders the pLTV score table as CSV string. The model report
// columns repeat on every row.
func RenderScores(rows []domain.ScoreRow, report domain.ModelReport) string {
	var sb strings.Builder

	sb.WriteString("game_user_id,pltv_pred,pltv_decile,is_top_1pct,segment,")
	sb.WriteString("model_id,model_type,train_size,test_size,mae,rmse,r2\n")

	for _, r := range rows {
		top := 0
		if r.IsTop1Pct {
			top = 1
		}
		sb.WriteString(fmt.Sprintf("%s,%.6f,%d,%d,%s,%s,%s,%d,%d,%.6f,%.6f,%.6f\n",
			r.GameUserID,
			r.Pred,
			r.Decile,
			top,
			r.Segment,
			report.ModelID,
			report.ModelType,
			report.TrainSize,
			report.TestSize,
			report.MAE,
			report.RMSE,
			report.R2,
		))
	}

	return sb.String()
}

// firstPurchaseField renders the no-purchase sentinel without a fractional
// part so it round-trips as the integer -1.
func firstPurchaseField(hours float64) string {
	if hours == domain.NoPurchaseSentinel {
		return "-1"
	}
	return strconv.FormatFloat(hours, 'f', 2, 64)
}

// csvField quotes a value containing a comma. Device model names are the
// only free-text column.
func csvField(v string) string {
	if strings.ContainsAny(v, ",\"") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}
