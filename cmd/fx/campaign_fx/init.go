package campaign_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"trustly/internal/repositories"
	"trustly/internal/services"
	"trustly/pkg/config"
	"trustly/pkg/storage"
)

var Module = fx.Provide(provideCampaignRepo, provideCampaignService)

func provideCampaignRepo(db *gorm.DB) repositories.CampaignRepository {
	return repositories.NewCampaignRepository(db)
}

func provideCampaignService(
	businessRepo repositories.BusinessRepository,
	campaignRepo repositories.CampaignRepository,
	testimonialRepo repositories.TestimonialRepository,
	store storage.ObjectStore,
	forms *services.FormCache,
	cfg *config.Config,
	log *zap.Logger,
) services.CampaignServiceInterface {
	return services.NewCampaignService(businessRepo, campaignRepo, testimonialRepo, store, forms, cfg.AppBaseURL, log)
}
