package tracing_fx

import (
	"context"

	"go.uber.org/fx"

	"holou/internal/config"
	"holou/internal/infra"
	"holou/pkg/logger"
)

var Module = fx.Invoke(startTracing)

func startTracing(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) error {
	shutdown, err := infra.InitTracing(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}
