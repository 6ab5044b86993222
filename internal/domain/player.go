package domain

// Channel is a user-acquisition channel.
type Channel string

// User-acquisition channels.
const (
	ChannelOrganic    Channel = "organic"
	ChannelPaidSocial Channel = "paid_social"
	ChannelPaidSearch Channel = "paid_search"
	ChannelInfluencer Channel = "influencer"
	ChannelCrossPromo Channel = "cross_promo"
)

// DeviceTier is a coarse device performance class.
type DeviceTier string

// Device tiers.
const (
	TierLow  DeviceTier = "low"
	TierMid  DeviceTier = "mid"
	TierHigh DeviceTier = "high"
)

// UnknownAttribution is emitted for campaign/adset/creative ids when the
// player withheld tracking consent.
const UnknownAttribution = "unknown"

// Player represents one simulated install with its acquisition context.
// Corresponds to one row of players.csv. Immutable after creation; downstream
// components reference it by GameUserID and never mutate it.
type Player struct {
	GameUserID       string
	InstallID        string
	InstallTimeMs    int64 // Unix timestamp in milliseconds
	CampaignID       string
	AdsetID          string
	CreativeID       string
	Channel          Channel
	Country          string
	OS               string
	DeviceModel      string
	DeviceTier       DeviceTier
	ConsentTracking  bool
	ConsentMarketing bool
}

// Milestones records the first occurrence of gameplay milestones that anchor
// purchase timing. Each field is set at most once during event generation and
// read-only afterwards; zero means the milestone never happened.
type Milestones struct {
	FirstDungeonMs int64
	Level20Ms      int64
	FirstGuildMs   int64
}

// Profile is the fixed per-player "personality" drawn once at creation:
// assigned archetype, jittered retention parameters, latent traits and the
// behavioral propensities derived from them. Never re-sampled.
type Profile struct {
	ArchetypeID string

	// Jittered retention parameters.
	RetentionBase  float64
	RetentionDecay float64
	WeekendBoost   float64

	// Latent traits in [0,1].
	Engagement float64
	Spender    float64

	// Derived propensities in [0,1].
	PayPropensity     float64
	SocialPropensity  float64
	GrindPropensity   float64
	CompetePropensity float64

	GuildProb float64
	LevelMin  int
	LevelMax  int
}
