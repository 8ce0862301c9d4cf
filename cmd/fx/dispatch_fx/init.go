package dispatch_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"trustly/internal/repositories"
	"trustly/internal/services"
	"trustly/pkg/config"
)

var Module = fx.Provide(provideRecipientRepo, provideDispatchService)

func provideRecipientRepo(db *gorm.DB) repositories.RecipientRepository {
	return repositories.NewRecipientRepository(db)
}

func provideDispatchService(
	businessRepo repositories.BusinessRepository,
	campaignRepo repositories.CampaignRepository,
	recipientRepo repositories.RecipientRepository,
	mailService services.IMailService,
	cfg *config.Config,
	log *zap.Logger,
) services.DispatchServiceInterface {
	return services.NewDispatchService(businessRepo, campaignRepo, recipientRepo, mailService, cfg.AppBaseURL, log)
}
