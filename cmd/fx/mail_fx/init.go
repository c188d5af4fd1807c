package mail_fx

import (
	"go.uber.org/fx"

	"holou/internal/config"
	"holou/internal/services"
	"holou/pkg/logger"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config, log *logger.Logger) services.MailServiceInterface {
	return services.NewMailService(services.MailConfig{
		SMTP:       cfg.SMTP,
		RequireTLS: !cfg.SMTP.UseSSL && cfg.IsProduction(),
		AppName:    "Holou",
		AppBaseURL: cfg.AppBaseURL,
	}, log)
}
