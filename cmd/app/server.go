package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/fx"

	"holou/cmd/fx/ai_fx"
	"holou/cmd/fx/avatar_fx"
	"holou/cmd/fx/config_fx"
	"holou/cmd/fx/contact_fx"
	"holou/cmd/fx/controllers_fx"
	"holou/cmd/fx/db_fx"
	"holou/cmd/fx/mail_fx"
	"holou/cmd/fx/plan_fx"
	"holou/cmd/fx/resource_fx"
	"holou/cmd/fx/session_fx"
	"holou/cmd/fx/staff_fx"
	"holou/cmd/fx/tracing_fx"
	"holou/internal/api"
	"holou/internal/api/controllers"
	"holou/internal/config"
	"holou/pkg/logger"
	"holou/pkg/middleware"
	"holou/pkg/utils"
	"holou/web"
)

func runServer() error {
	app := fx.New(
		config_fx.Module,
		tracing_fx.Module,
		db_fx.Module,
		session_fx.Module,
		ai_fx.Module,
		mail_fx.Module,
		plan_fx.Module,
		avatar_fx.Module,
		contact_fx.Module,
		resource_fx.Module,
		staff_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)
	app.Run()
	return app.Err()
}

func StartServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, engine *gin.Engine, cfg *config.Config, log *logger.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", "addr", srv.Addr)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type routerParams struct {
	fx.In

	Config *config.Config
	Log    *logger.Logger
	Issuer *utils.TokenIssuer

	Chat     *controllers.ChatController
	Results  *controllers.ResultsController
	Avatar   *controllers.AvatarController
	Contact  *controllers.ContactController
	Resource *controllers.ResourceController
	Staff    *controllers.StaffController
}

func ProvideRouter(p routerParams) (*gin.Engine, error) {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("holou"))
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Log))
	r.Use(middleware.CORSMiddleware(p.Config.CORSAllowedOrigins))
	r.SetHTMLTemplate(tmpl)

	api.RegisterRoutes(r, api.Controllers{
		Chat:     p.Chat,
		Results:  p.Results,
		Avatar:   p.Avatar,
		Contact:  p.Contact,
		Resource: p.Resource,
		Staff:    p.Staff,
	}, api.RouteOptions{
		MediaRoot:     p.Config.MediaRoot,
		SessionCookie: p.Config.SessionCookie,
		SessionTTL:    p.Config.SessionTTL,
		SecureCookies: p.Config.IsProduction(),
		Issuer:        p.Issuer,
	})
	return r, nil
}
