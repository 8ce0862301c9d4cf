package response_models

type RatingBucket struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type CampaignCount struct {
	Campaign string `json:"campaign"`
	Count    int    `json:"count"`
}

// AnalyticsReport is the aggregate computed over one window of testimonials.
type AnalyticsReport struct {
	Days               int             `json:"days"`
	Total              int             `json:"total"`
	Approved           int             `json:"approved"`
	Pending            int             `json:"pending"`
	Rejected           int             `json:"rejected"`
	AverageRating      float64         `json:"average_rating"`
	ConversionRate     float64         `json:"conversion_rate"`
	RatingDistribution []RatingBucket  `json:"rating_distribution"`
	Last7Days          []DayCount      `json:"last_7_days"`
	ByCampaign         []CampaignCount `json:"by_campaign"`
}
