// Package http assembles the gin engine: middleware chain, template engine,
// session guard and every route.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/accounthub/internal/auth"
	"github.com/geocoder89/accounthub/internal/config"
	"github.com/geocoder89/accounthub/internal/http/handlers"
	"github.com/geocoder89/accounthub/internal/http/middlewares"
	"github.com/geocoder89/accounthub/internal/observability"
	"github.com/geocoder89/accounthub/internal/session"
	"github.com/geocoder89/accounthub/internal/ui"
	"github.com/geocoder89/accounthub/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(log *slog.Logger, db *sql.DB, cfg config.Config) (*gin.Engine, error) {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	codec, err := session.NewCodec(cfg.CookieEncryptionKey, cfg.CookieSigningKey)

	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}

	sessions := session.NewManager(codec, cfg.UseSecureCookie)

	// per-router registry so tests can build engines independently
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	r := gin.New()
	r.SetHTMLTemplate(ui.Templates())

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(prom.GinHandleMiddleware())

	// static assets: embedded by default, filesystem for live-edit in dev
	if cfg.UseFileSystemAssets {
		r.Static("/assets", "./internal/ui/assets")
	} else {
		r.StaticFS("/assets", ui.Assets())
	}

	// health
	ping := func() error {
		if db == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return db.PingContext(ctx)
	}

	hh := handlers.NewHealthHandler(ping)
	r.GET("/healthz", hh.Healthz)
	r.GET("/readyz", hh.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up services and handlers
	svc := auth.NewService(prom)
	authHandler := handlers.NewAuthHandler(db, svc, sessions, log)
	pagesHandler := handlers.NewPagesHandler(svc)
	apiHandler := handlers.NewAPIHandler(svc)

	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)

	r.GET("/", web.Handle(log, pagesHandler.Home))

	r.GET("/login", web.Handle(log, authHandler.LoginPage))
	r.POST("/login", loginLimiter.Middleware(middlewares.KeyByIP), authHandler.Login)
	r.GET("/signup", web.Handle(log, authHandler.SignupPage))
	r.POST("/signup", loginLimiter.Middleware(middlewares.KeyByIP), authHandler.Signup)

	protected := r.Group("", sessions.Require())
	protected.GET("/secret", web.HandleDB(log, db, pagesHandler.Secret))
	protected.GET("/logout", authHandler.Logout)

	r.GET("/api/ping", web.Handle(log, apiHandler.Ping))
	r.POST("/api/reverse", web.Handle(log, apiHandler.Reverse))
	r.GET("/api/users", web.HandleDB(log, db, apiHandler.ListUsers))

	r.GET("/fragments/list-item/:id", web.Handle(log, handlers.ListItem))

	return r, nil
}
