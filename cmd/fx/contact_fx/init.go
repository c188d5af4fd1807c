package contact_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"holou/internal/config"
	"holou/internal/repositories"
	"holou/internal/services"
	"holou/pkg/logger"
)

var Module = fx.Provide(
	provideWishlistRepo, provideFeedbackRepo, providePartnerRepo,
	provideContactService, provideExportService,
)

func provideWishlistRepo(db *gorm.DB) repositories.WishlistRepositoryInterface {
	return repositories.NewWishlistRepository(db)
}

func provideFeedbackRepo(db *gorm.DB) repositories.FeedbackRepositoryInterface {
	return repositories.NewFeedbackRepository(db)
}

func providePartnerRepo(db *gorm.DB) repositories.PartnerRepositoryInterface {
	return repositories.NewPartnerRepository(db)
}

func provideContactService(
	wishlist repositories.WishlistRepositoryInterface,
	feedback repositories.FeedbackRepositoryInterface,
	partners repositories.PartnerRepositoryInterface,
	mail services.MailServiceInterface,
	cfg *config.Config,
	log *logger.Logger,
) services.ContactServiceInterface {
	return services.NewContactService(wishlist, feedback, partners, mail, cfg.StaffNotifyEmail, log)
}

func provideExportService(
	wishlist repositories.WishlistRepositoryInterface,
	feedback repositories.FeedbackRepositoryInterface,
	partners repositories.PartnerRepositoryInterface,
	plans repositories.PlanRepositoryInterface,
) services.ExportServiceInterface {
	return services.NewExportService(wishlist, feedback, partners, plans)
}
