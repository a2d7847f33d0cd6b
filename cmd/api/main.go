package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/ghuser/orderserver/docs/swagger"
	"github.com/ghuser/orderserver/pkg/app"
	"github.com/ghuser/orderserver/pkg/cache"
	"github.com/ghuser/orderserver/pkg/clock"
	"github.com/ghuser/orderserver/pkg/config"
	"github.com/ghuser/orderserver/pkg/database"
	"github.com/ghuser/orderserver/pkg/events"
	"github.com/ghuser/orderserver/pkg/httpx"
	"github.com/ghuser/orderserver/pkg/logger"
	"github.com/ghuser/orderserver/pkg/memstore"
	"github.com/ghuser/orderserver/pkg/telemetry"
	itemApi "github.com/ghuser/orderserver/services/item/application/api"
	orderApi "github.com/ghuser/orderserver/services/order/application/api"
)

//	@title			Order Server API
//	@version		1.0
//	@description	Catalog items and customer orders with referential checks against the catalog.
//	@contact.name	API Support
//	@contact.email	support@example.com
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//	@host			localhost:8080
//	@BasePath		/api/v1
//	@schemes		http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional; log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	appConfig := &app.Application{
		Config: cfg,
		Logger: log,
		Clock:  clock.NewSystem(),
	}
	checks := httpx.HealthChecks{}

	if cfg.UsesPostgres() {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1) //nolint:gocritic // startup failure, deferred flushes are best-effort
		}
		defer pool.Close()
		appConfig.Db = pool
		checks.Database = pool
		log.Info("database pool connected")

		if cfg.EventsEnabled {
			eventBus, err := events.NewEventBus(pool.DB(), events.Options{Forwarder: true}, log)
			if err != nil {
				log.Error("failed to setup event bus", "error", err)
				os.Exit(1)
			}
			defer eventBus.Close() //nolint:errcheck

			if err := eventBus.StartForwarder(ctx); err != nil {
				log.Error("failed to start event forwarder", "error", err)
				os.Exit(1)
			}
			appConfig.EventBus = eventBus
			checks.EventBus = eventBus
		}

		if cfg.CacheEnabled {
			redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
			if err != nil {
				log.Error("failed to connect to redis", "error", err)
				os.Exit(1)
			}
			defer redisClient.Close() //nolint:errcheck
			appConfig.Redis = redisClient
			checks.Redis = redisClient
			log.Info("redis connected")
		}
	} else {
		store := memstore.New()
		appConfig.Memory = store
		checks.Database = store
		log.Info("using in-memory storage; data is lost on restart")
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		httpx.Middlewares{
			Recovery:  logger.Recovery(log),
			Sentry:    telemetry.SentryMiddleware(),
			Telemetry: telemetry.HTTPMiddleware(cfg.ServiceName),
			Logger:    logger.Middleware(log),
		},
	)

	r.Get("/health", httpx.HealthHandler(checks))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api/v1", func(r chi.Router) {
		registerRoutes(r, appConfig)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api/v1.
// Add each new service's route function here.
func registerRoutes(r chi.Router, a *app.Application) {
	itemApi.ItemRoutes(r, a)
	orderApi.OrderRoutes(r, a)
}
