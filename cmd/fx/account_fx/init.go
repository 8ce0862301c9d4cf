package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"trustly/internal/repositories"
	"trustly/internal/services"
	"trustly/pkg/storage"
	"trustly/pkg/utils"
)

var Module = fx.Provide(
	provideAccountRepo, provideBusinessRepo, provideAccountService, provideBusinessService)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideBusinessRepo(db *gorm.DB) repositories.BusinessRepository {
	return repositories.NewBusinessRepository(db)
}

func provideAccountService(accountRepo repositories.AccountRepository, businessRepo repositories.BusinessRepository, tokens *utils.TokenManager, log *zap.Logger) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, businessRepo, tokens, log)
}

func provideBusinessService(
	businessRepo repositories.BusinessRepository,
	campaignRepo repositories.CampaignRepository,
	store storage.ObjectStore,
	mailService services.IMailService,
	forms *services.FormCache,
	log *zap.Logger,
) services.BusinessServiceInterface {
	return services.NewBusinessService(businessRepo, campaignRepo, store, mailService, forms, log)
}
