package plan_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"holou/internal/config"
	"holou/internal/repositories"
	"holou/internal/services"
	"holou/pkg/logger"
	"holou/pkg/session"
	"holou/pkg/utils"
)

var Module = fx.Provide(
	providePlanRepo, providePlanGenerator, providePlanService, provideChatService,
)

func providePlanRepo(db *gorm.DB) repositories.PlanRepositoryInterface {
	return repositories.NewPlanRepository(db)
}

func providePlanGenerator(ai utils.TextGenerator, cfg *config.Config, log *logger.Logger) services.PlanGeneratorInterface {
	return services.NewPlanGenerator(ai, services.PlanGeneratorConfig{
		PrimaryTimeout: cfg.PlanPrimaryTimeout,
		MinimalTimeout: cfg.PlanMinimalTimeout,
		ReviewEnabled:  cfg.PlanReviewEnabled,
		ReviewTimeout:  cfg.PlanReviewTimeout,
	}, log)
}

func providePlanService(planRepo repositories.PlanRepositoryInterface) services.PlanServiceInterface {
	return services.NewPlanService(planRepo)
}

func provideChatService(
	sessions *session.Manager,
	generator services.PlanGeneratorInterface,
	plans services.PlanServiceInterface,
	cfg *config.Config,
	log *logger.Logger,
) services.ChatServiceInterface {
	return services.NewChatService(sessions, generator, plans, cfg.PlanAutoApprove, log)
}
