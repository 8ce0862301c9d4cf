package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"trustly/internal/models/db_models"
	"trustly/internal/repositories"
	"trustly/pkg/utils"
)

func dbError(err error) error {
	return errors.WithMessage(utils.ErrDatabaseError, err.Error())
}

func storageError(err error) error {
	return errors.WithMessage(utils.ErrStorageError, err.Error())
}

// callerBusiness resolves the business of the signed-in user. Every owner-side operation scopes
// its reads and writes to this business.
func callerBusiness(ctx context.Context, repo repositories.BusinessRepository, userID uuid.UUID) (*db_models.Business, error) {
	business, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	if business == nil {
		return nil, utils.ErrBusinessNotFound
	}
	return business, nil
}

// ownedCampaign loads a campaign and checks it belongs to business.
func ownedCampaign(ctx context.Context, repo repositories.CampaignRepository, business *db_models.Business, campaignID uuid.UUID) (*db_models.Campaign, error) {
	campaign, err := repo.FindByID(ctx, campaignID)
	if err != nil {
		return nil, dbError(err)
	}
	if campaign == nil {
		return nil, utils.ErrCampaignNotFound
	}
	if campaign.BusinessID != business.ID {
		return nil, utils.ErrForbidden
	}
	return campaign, nil
}

// ownedTestimonial loads a testimonial and checks it belongs to business.
func ownedTestimonial(ctx context.Context, repo repositories.TestimonialRepository, business *db_models.Business, testimonialID uuid.UUID) (*db_models.Testimonial, error) {
	testimonial, err := repo.FindByID(ctx, testimonialID)
	if err != nil {
		return nil, dbError(err)
	}
	if testimonial == nil {
		return nil, utils.ErrTestimonialNotFound
	}
	if testimonial.BusinessID != business.ID {
		return nil, utils.ErrForbidden
	}
	return testimonial, nil
}
