package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"trustly/internal/services"
	"trustly/pkg/config"
)

var Module = fx.Provide(provideMailTransport, provideMailService)

func provideMailTransport(cfg *config.Config, log *zap.Logger) (services.MailTransport, error) {
	transport, err := services.NewMailTransport(cfg.Mail, log)
	if err != nil {
		return nil, err
	}
	log.Info("mail transport ready", zap.String("provider", cfg.Mail.Provider))
	return transport, nil
}

func provideMailService(transport services.MailTransport, cfg *config.Config) services.IMailService {
	return services.NewMailService(transport, cfg.AppBaseURL)
}
