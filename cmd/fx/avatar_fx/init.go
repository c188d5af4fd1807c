package avatar_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"holou/internal/config"
	"holou/internal/repositories"
	"holou/internal/services"
	"holou/pkg/logger"
	"holou/pkg/utils"
)

var Module = fx.Provide(
	provideAvatarRepo, provideWatermarkService, provideAvatarService,
)

func provideAvatarRepo(db *gorm.DB) repositories.AvatarRepositoryInterface {
	return repositories.NewAvatarRepository(db)
}

func provideWatermarkService(cfg *config.Config, log *logger.Logger) services.WatermarkServiceInterface {
	return services.NewWatermarkService(cfg.WatermarkText, cfg.WatermarkFontPath, cfg.WatermarkLogoPath, log)
}

func provideAvatarService(
	repo repositories.AvatarRepositoryInterface,
	images utils.ImageGenerator,
	describer utils.ImageDescriber,
	watermark services.WatermarkServiceInterface,
	cfg *config.Config,
	log *logger.Logger,
) services.AvatarServiceInterface {
	return services.NewAvatarService(repo, images, describer, watermark, services.AvatarServiceConfig{
		MediaRoot:       cfg.MediaRoot,
		GenerateTimeout: cfg.ImageGenerateTimeout,
		VisionTimeout:   cfg.VisionTimeout,
		DownloadTimeout: cfg.ImageDownloadTimeout,
	}, log)
}
