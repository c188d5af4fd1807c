package staff_fx

import (
	"go.uber.org/fx"

	"holou/internal/config"
	"holou/internal/services"
	"holou/pkg/logger"
	"holou/pkg/utils"
)

var Module = fx.Provide(provideTokenIssuer, provideStaffAuthService)

func provideTokenIssuer(cfg *config.Config) *utils.TokenIssuer {
	return utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
}

func provideStaffAuthService(cfg *config.Config, issuer *utils.TokenIssuer, log *logger.Logger) services.StaffAuthServiceInterface {
	if cfg.StaffUsername == "" || cfg.StaffPasswordHash == "" || cfg.JWTSecret == "" {
		log.Warn("staff login disabled, set STAFF_USERNAME, STAFF_PASSWORD_HASH and JWT_SECRET to enable it")
	}
	return services.NewStaffAuthService(cfg.StaffUsername, cfg.StaffPasswordHash, issuer, log)
}
