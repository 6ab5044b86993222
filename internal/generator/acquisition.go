package generator

import (
	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/idhash"
	"mmo-analytics-lab/internal/rng"
	"mmo-analytics-lab/internal/uacost"
)

// Acquisition mix.
var channelWeights = []struct {
	channel domain.Channel
	weight  float64
}{
	{domain.ChannelOrganic, 0.35},
	{domain.ChannelPaidSocial, 0.25},
	{domain.ChannelPaidSearch, 0.15},
	{domain.ChannelInfluencer, 0.15},
	{domain.ChannelCrossPromo, 0.10},
}

var countryWeights = []struct {
	country string
	weight  float64
}{
	{"US", 0.22},
	{"KR", 0.12},
	{"JP", 0.12},
	{"DE", 0.08},
	{"GB", 0.07},
	{"FR", 0.06},
	{"BR", 0.11},
	{"IN", 0.12},
	{"TR", 0.05},
	{"PH", 0.05},
}

var iosModels = []string{"iPhone 12", "iPhone 13", "iPhone 14 Pro", "iPhone 15", "iPad Air"}

var androidModels = []string{"Galaxy S21", "Galaxy A54", "Pixel 7", "Redmi Note 12", "Galaxy S23 Ultra", "Moto G84"}

// newPlayer draws one player's identity and acquisition context. Draw order
// is fixed: install offset, channel, campaign/adset/creative, country, os,
// model, tier, consents.
func newPlayer(stream *rng.Stream, seed int64, index int, simStartMs int64, installWindowDays int) domain.Player {
	installMs := simStartMs + int64(stream.Float64()*float64(installWindowDays)*24*3600*1000)
	// Millisecond part is stripped: telemetry SDKs report whole seconds.
	installMs -= installMs % 1000

	channel := pickChannel(stream)

	campaignID := uacost.OrganicCampaignID
	adsetID := uacost.OrganicCampaignID
	creativeID := uacost.OrganicCampaignID
	if campaigns := uacost.ForChannel(channel); len(campaigns) > 0 {
		c := campaigns[stream.IntRange(0, len(campaigns)-1)]
		campaignID = c.ID
		adsetID = c.AdsetIDs[stream.IntRange(0, len(c.AdsetIDs)-1)]
		creativeID = c.CreativeID[stream.IntRange(0, len(c.CreativeID)-1)]
	}

	country := pickCountry(stream)

	os := "android"
	models := androidModels
	if stream.Chance(0.45) {
		os = "ios"
		models = iosModels
	}
	model := stream.Pick(models)

	tier := domain.TierMid
	switch r := stream.Float64(); {
	case r < 0.25:
		tier = domain.TierLow
	case r >= 0.75:
		tier = domain.TierHigh
	}

	consentTracking := stream.Chance(0.88)
	consentMarketing := stream.Chance(0.75)

	if !consentTracking {
		campaignID = domain.UnknownAttribution
		adsetID = domain.UnknownAttribution
		creativeID = domain.UnknownAttribution
	}

	return domain.Player{
		GameUserID:       idhash.PlayerID(index),
		InstallID:        idhash.InstallID(seed, index),
		InstallTimeMs:    installMs,
		CampaignID:       campaignID,
		AdsetID:          adsetID,
		CreativeID:       creativeID,
		Channel:          channel,
		Country:          country,
		OS:               os,
		DeviceModel:      model,
		DeviceTier:       tier,
		ConsentTracking:  consentTracking,
		ConsentMarketing: consentMarketing,
	}
}

func pickChannel(stream *rng.Stream) domain.Channel {
	draw := stream.Float64()
	cum := 0.0
	for _, cw := range channelWeights {
		cum += cw.weight
		if draw < cum {
			return cw.channel
		}
	}
	return channelWeights[len(channelWeights)-1].channel
}

func pickCountry(stream *rng.Stream) string {
	draw := stream.Float64()
	cum := 0.0
	for _, cw := range countryWeights {
		cum += cw.weight
		if draw < cum {
			return cw.country
		}
	}
	return countryWeights[len(countryWeights)-1].country
}
