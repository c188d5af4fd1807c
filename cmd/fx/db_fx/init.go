package db_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"holou/internal/config"
	"holou/internal/infra"
	"holou/pkg/logger"
)

var Module = fx.Provide(provideDB)

func provideDB(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	db, err := infra.InitDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := infra.Migrate(db); err != nil {
		infra.CloseDatabase(db, log)
		return nil, err
	}

	lc.Append(fx.StopHook(func() { infra.CloseDatabase(db, log) }))
	return db, nil
}
