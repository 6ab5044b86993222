package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmo-analytics-lab/internal/domain"
)

func TestRenderPlayersHeaderAndFormat(t *testing.T) {
	players := []domain.Player{{
		GameUserID:       "u000001",
		InstallID:        "abc123",
		InstallTimeMs:    1709294400000, // 2024-03-01T12:00:00Z
		CampaignID:       "cmp_social_01",
		AdsetID:          "as_01",
		CreativeID:       "cr_01",
		Channel:          domain.ChannelPaidSocial,
		Country:          "US",
		OS:               "ios",
		DeviceModel:      "iPhone 14 Pro",
		DeviceTier:       domain.TierHigh,
		ConsentTracking:  true,
		ConsentMarketing: false,
	}}

	out := RenderPlayers(players)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t,
		"game_user_id,install_id,install_time,campaign_id,adset_id,creative_id,"+
			"channel,country,os,device_model,device_tier,consent_tracking,consent_marketing",
		lines[0])
	assert.Equal(t,
		"u000001,abc123,2024-03-01T12:00:00Z,cmp_social_01,as_01,cr_01,"+
			"paid_social,US,ios,iPhone 14 Pro,high,true,false",
		lines[1])
}

func TestRenderEventsRawTimeOverride(t *testing.T) {
	events := []domain.Event{
		{GameUserID: "u000001", TimestampMs: 1709294400123, Name: "session_start", SessionID: "u000001-d00-s1"},
		{GameUserID: "u000002", TimestampMs: 1709294400123, RawTime: "NaN", RawTimeSet: true, Name: "combat_hit", SessionID: "u000002-d00-s1", Params: "dmg=42;crit=true"},
		{GameUserID: "u000003", TimestampMs: 1709294400123, RawTime: "", RawTimeSet: true, Name: "combat_hit", SessionID: "u000003-d00-s1"},
	}

	out := RenderEvents(events)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "u000001,2024-03-01T12:00:00.123Z,session_start,u000001-d00-s1,", lines[1])
	assert.Equal(t, "u000002,NaN,combat_hit,u000002-d00-s1,dmg=42;crit=true", lines[2])

	// The empty malformed variant exports an empty timestamp field, not
	// the formatted TimestampMs.
	assert.Equal(t, "u000003,,combat_hit,u000003-d00-s1,", lines[3])
}

func TestRenderPaymentsTwoDecimal(t *testing.T) {
	payments := []domain.Payment{{
		GameUserID:  "u000001",
		TimestampMs: 1709294400000,
		AmountUSD:   9.9,
		ProductSKU:  domain.SKUBattlePass,
		Channel:     domain.PayChannelAppStore,
		IsRefund:    true,
	}}

	out := RenderPayments(payments)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "u000001,2024-03-01T12:00:00.000Z,9.90,battle_pass,appstore,true", lines[1])
}

func TestRenderLabelsSentinel(t *testing.T) {
	rows := []domain.LabelRow{
		{GameUserID: "u000001", InstallDate: "2024-03-01", FirstPurchaseTimeHours: domain.NoPurchaseSentinel},
		{GameUserID: "u000002", InstallDate: "2024-03-02", FirstPurchaseTimeHours: 37.5},
	}

	out := RenderLabels(rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[1], ",-1,")
	assert.Contains(t, lines[2], ",37.50,")
}

func TestRenderScoresTopFlag(t *testing.T) {
	rows := []domain.ScoreRow{
		{GameUserID: "u000001", Pred: 120.5, Decile: 10, IsTop1Pct: true, Segment: domain.SegmentWhale},
		{GameUserID: "u000002", Pred: 3.2, Decile: 4, IsTop1Pct: false, Segment: domain.SegmentLow},
	}
	report := domain.ModelReport{
		ModelID:   "gbt_0011aabbccdd",
		ModelType: "full",
		TrainSize: 1600,
		TestSize:  400,
		MAE:       1.5,
		RMSE:      4.2,
		R2:        0.61,
	}

	out := RenderScores(rows, report)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		"game_user_id,pltv_pred,pltv_decile,is_top_1pct,segment,"+
			"model_id,model_type,train_size,test_size,mae,rmse,r2",
		lines[0])
	assert.Equal(t,
		"u000001,120.500000,10,1,Whale (Top 1%),gbt_0011aabbccdd,full,1600,400,1.500000,4.200000,0.610000",
		lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "u000002,3.200000,4,0,Low Value,"))
}

func TestCSVFieldQuoting(t *testing.T) {
	assert.Equal(t, "Pixel 7", csvField("Pixel 7"))
	assert.Equal(t, `"Tab 10,1"`, csvField("Tab 10,1"))
	assert.Equal(t, `"a""b"`, csvField(`a"b`))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	require.NoError(t, WriteFile(path, "a,b\n1,2\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))

	// No stray temp files remain.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.csv", entries[0].Name())
}
