package request_models

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListTestimonialsQuery struct {
	CampaignID string `form:"campaign_id" binding:"omitempty,uuid"`
	Status     string `form:"status"`
}

type ListMediaQuery struct {
	Kind   string `form:"kind" binding:"omitempty,oneof=photo video"`
	Status string `form:"status"`
}

type AnalyticsQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

type WidgetQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
