package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"holou/internal/config"
	"holou/pkg/logger"
)

var Module = fx.Options(
	fx.Provide(config.Load, provideLogger),
	fx.WithLogger(func(log *logger.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Desugar()}
	}),
	fx.Invoke(reportWarnings),
)

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*logger.Logger, error) {
	mode := "development"
	if cfg.IsProduction() {
		mode = "production"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, err
	}

	// pkg/utils reports unexpected errors through the global logger
	restore := zap.ReplaceGlobals(log.Desugar())
	lc.Append(fx.StopHook(func() {
		log.Sync()
		restore()
	}))
	return log, nil
}

func reportWarnings(cfg *config.Config, log *logger.Logger) {
	for _, w := range cfg.Warnings {
		log.Warn("config value ignored", "detail", w)
	}
}
