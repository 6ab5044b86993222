package domain

// UACostRow is one day of synthetic ad spend for one campaign.
// Corresponds to one row of ua_costs.csv. Independent of individual players;
// consumed only through the (campaign, date) -> CPI lookup.
type UACostRow struct {
	CampaignID  string
	Date        string // YYYY-MM-DD
	Spend       float64
	Impressions int
	Clicks      int
	Installs    int
}

// CPIKey keys the cost-per-install lookup.
type CPIKey struct {
	CampaignID string
	Date       string
}
