package response_models

import "github.com/google/uuid"

type DispatchResult struct {
	CampaignID     uuid.UUID `json:"campaign_id"`
	SentCount      int       `json:"sent_count"`
	TotalCustomers int       `json:"total_customers"`
}

type CustomerPreview struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
