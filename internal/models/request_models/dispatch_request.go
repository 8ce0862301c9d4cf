package request_models

import "github.com/google/uuid"

type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type DispatchRequest struct {
	BusinessID   uuid.UUID       `json:"business_id" binding:"required"`
	CampaignName string          `json:"campaign_name" binding:"required,max=200"`
	Customers    []CustomerInput `json:"customers" binding:"required,min=1,max=1000"`
}
