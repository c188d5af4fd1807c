package session_fx

import (
	"context"
	"strings"

	"go.uber.org/fx"

	"holou/internal/config"
	"holou/internal/infra"
	"holou/pkg/logger"
	"holou/pkg/session"
)

var Module = fx.Provide(provideSessionStore, provideSessionManager)

func provideSessionStore(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (session.Store, error) {
	if !strings.EqualFold(cfg.SessionBackend, "redis") {
		store := session.NewMemoryStore()
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				store.StartSweeper(cfg.SessionSweepInterval, func(removed int) {
					log.Debug("expired sessions removed", "count", removed)
				})
				return nil
			},
			OnStop: func(context.Context) error {
				store.StopSweeper()
				return nil
			},
		})
		log.Info("using in-memory session store", "sweep_interval", cfg.SessionSweepInterval)
		return store, nil
	}

	rdb, err := infra.NewRedisClient(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(rdb.Close))
	log.Info("using redis session store", "addr", cfg.RedisAddr)
	return session.NewRedisStore(rdb), nil
}

func provideSessionManager(store session.Store, cfg *config.Config) *session.Manager {
	return session.NewManager(store, cfg.SessionTTL)
}
