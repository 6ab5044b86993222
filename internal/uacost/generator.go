// Package uacost generates synthetic per-campaign daily ad spend and the
// cost-per-install lookup derived from it.
package uacost

import (
	"time"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/rng"
)

// Campaign is one paid UA campaign with its creative inventory.
type Campaign struct {
	ID         string
	Channel    domain.Channel
	AdsetIDs   []string
	CreativeID []string
	DailySpend float64 // base spend level, jittered per day
}

// OrganicCampaignID marks installs with no paid attribution. No cost rows
// are generated for it; its CPI is always zero.
const OrganicCampaignID = "organic"

// Campaigns is the fixed paid campaign catalog. Player acquisition picks a
// campaign matching the player's channel.
var Campaigns = []Campaign{
	{ID: "cmp_social_01", Channel: domain.ChannelPaidSocial, DailySpend: 850,
		AdsetIDs: []string{"as_s01_a", "as_s01_b", "as_s01_c"}, CreativeID: []string{"cr_vid_raid", "cr_vid_pvp", "cr_img_hero"}},
	{ID: "cmp_social_02", Channel: domain.ChannelPaidSocial, DailySpend: 620,
		AdsetIDs: []string{"as_s02_a", "as_s02_b"}, CreativeID: []string{"cr_vid_gacha", "cr_img_guild"}},
	{ID: "cmp_search_01", Channel: domain.ChannelPaidSearch, DailySpend: 430,
		AdsetIDs: []string{"as_q01_a", "as_q01_b"}, CreativeID: []string{"cr_txt_mmorpg", "cr_txt_rpg"}},
	{ID: "cmp_influencer_01", Channel: domain.ChannelInfluencer, DailySpend: 1200,
		AdsetIDs: []string{"as_i01_a"}, CreativeID: []string{"cr_stream_boss", "cr_stream_pvp"}},
	{ID: "cmp_influencer_02", Channel: domain.ChannelInfluencer, DailySpend: 540,
		AdsetIDs: []string{"as_i02_a"}, CreativeID: []string{"cr_short_skins"}},
	{ID: "cmp_xpromo_01", Channel: domain.ChannelCrossPromo, DailySpend: 260,
		AdsetIDs: []string{"as_x01_a"}, CreativeID: []string{"cr_xp_banner"}},
}

// ForChannel returns the campaigns serving a channel. Empty for organic.
func ForChannel(ch domain.Channel) []Campaign {
	var out []Campaign
	for _, c := range Campaigns {
		if c.Channel == ch {
			out = append(out, c)
		}
	}
	return out
}

// GenerateCosts produces one UA-cost row per paid campaign per day for the
// given window. Funnel shape: spend -> impressions (CPM) -> clicks (CTR) ->
// installs (CVR), all jittered from the generation stream.
func GenerateCosts(stream *rng.Stream, startMs int64, days int) []domain.UACostRow {
	var rows []domain.UACostRow

	for _, c := range Campaigns {
		for d := 0; d < days; d++ {
			dayMs := startMs + int64(d)*24*3600*1000
			date := time.UnixMilli(dayMs).UTC().Format("2006-01-02")

			spend := c.DailySpend * (0.70 + 0.60*stream.Float64())
			cpm := 6.0 + 6.0*stream.Float64()
			impressions := int(spend / cpm * 1000)
			ctr := 0.008 + 0.022*stream.Float64()
			clicks := int(float64(impressions) * ctr)
			cvr := 0.04 + 0.10*stream.Float64()
			installs := int(float64(clicks) * cvr)

			rows = append(rows, domain.UACostRow{
				CampaignID:  c.ID,
				Date:        date,
				Spend:       float64(int(spend*100)) / 100,
				Impressions: impressions,
				Clicks:      clicks,
				Installs:    installs,
			})
		}
	}

	return rows
}

// BuildCPILookup maps (campaign, date) to cost per install. A day with zero
// recorded installs yields CPI 0 rather than a division blowup.
func BuildCPILookup(rows []domain.UACostRow) map[domain.CPIKey]float64 {
	lookup := make(map[domain.CPIKey]float64, len(rows))
	for _, r := range rows {
		cpi := 0.0
		if r.Installs > 0 {
			cpi = r.Spend / float64(r.Installs)
		}
		lookup[domain.CPIKey{CampaignID: r.CampaignID, Date: r.Date}] = cpi
	}
	return lookup
}
