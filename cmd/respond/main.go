package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mdrrmo/respond/internal/adapters/dswd"
	"github.com/mdrrmo/respond/internal/cleanup"
	incidentapi "github.com/mdrrmo/respond/internal/incident/api"
	"github.com/mdrrmo/respond/internal/incident/infrastructure"
	"github.com/mdrrmo/respond/internal/notify"
	"github.com/mdrrmo/respond/internal/shared/auth"
	"github.com/mdrrmo/respond/internal/shared/config"
	"github.com/mdrrmo/respond/internal/shared/database"
	"github.com/mdrrmo/respond/internal/shared/events"
	"github.com/mdrrmo/respond/internal/shared/logger"
	"github.com/mdrrmo/respond/internal/shared/metrics"
	secmiddleware "github.com/mdrrmo/respond/internal/shared/middleware"
	"github.com/mdrrmo/respond/internal/stats"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *database.DB
	Bus    *events.Bus
	Cache  *stats.Cache
	Legacy *dswd.Adapter
}

func main() {
	ctx := context.Background()

	// .env is optional, real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "respond")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app := &App{Config: cfg, Logger: log}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal("database not available", zap.Error(err))
	}
	app.DB = db
	defer db.Close()

	if err := database.Migrate(ctx, db.Pool); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	// Event streaming is optional, run without it when disabled or down
	if cfg.EventStore.Enabled {
		bus, err := events.NewBus(ctx, cfg.EventStore)
		if err != nil {
			log.Warn("event store not available, running without event streaming", zap.Error(err))
		} else {
			app.Bus = bus
			defer bus.Close()
			log.Info("event bus initialized")
		}
	}

	// Redis rollup cache is optional as well
	if cfg.Redis.Enabled {
		cache, err := stats.NewCache(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis not available, analytics will not be cached", zap.Error(err))
		} else {
			app.Cache = cache
			defer cache.Close()
			log.Info("analytics cache initialized")
		}
	}

	// Legacy social-welfare registry, enabled per deployment
	if cfg.LegacyRegistry.Enabled {
		legacy, err := dswd.New(ctx, cfg.LegacyRegistry, log)
		if err != nil {
			log.Warn("legacy registry not available", zap.Error(err))
		} else {
			app.Legacy = legacy
			defer legacy.Close()
			log.Info("legacy registry adapter initialized")
		}
	}

	repo := infrastructure.NewPostgresRepository(db.Pool, log)
	users := infrastructure.NewUserStore(db.Pool)
	statsService := stats.NewService(repo, app.Cache, log)
	notifier := notify.New(cfg.Notify, log)

	// NewHandler tolerates nil for every optional integration
	var busIface events.EventBus
	if app.Bus != nil {
		busIface = app.Bus
	}
	var importer incidentapi.PopulationImporter
	if app.Legacy != nil {
		importer = app.Legacy
	}
	var notifierIface incidentapi.Notifier
	if notifier != nil {
		notifierIface = notifier
	}

	incidentHandler := incidentapi.NewHandler(repo, users, statsService, busIface, importer, notifierIface, log)
	statsHandler := stats.NewHandler(statsService)

	if job := cleanup.New(repo, cfg.Cleanup, log); job != nil {
		if err := job.Start(); err != nil {
			log.Warn("retention job failed to start", zap.Error(err))
		} else {
			defer job.Stop()
		}
	}

	rateLimiter := secmiddleware.NewIPRateLimiter(100, 200)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.InputSanitizer)
	r.Use(metrics.Middleware)
	r.Use(secmiddleware.CORS(secmiddleware.DefaultCORSConfig()))
	r.Use(rateLimiter.Middleware)

	// Health checks and metrics (unauthenticated)
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())
	r.Get("/", infoHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth))

		r.Mount("/incidents", incidentHandler.Routes())
		r.Mount("/analytics", statsHandler.Routes())
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
		close(done)
	}()

	log.Info("respond incident platform started",
		zap.String("env", cfg.Server.Env),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("event_streaming", app.Bus != nil),
		zap.Bool("analytics_cache", app.Cache != nil),
		zap.Bool("legacy_registry", app.Legacy != nil),
		zap.Bool("notifications", notifier != nil))

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}

	<-done
	log.Info("server stopped")
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    "MDRRMO Respond",
		"version": "1.0.0",
		"docs":    "/api/v1",
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
		}

		if err := app.DB.Health(r.Context()); err != nil {
			checks["database"] = "not ready: " + err.Error()
		} else {
			checks["database"] = "ready"
		}

		if app.Bus != nil {
			if err := app.Bus.Health(); err != nil {
				checks["eventstore"] = "not ready: " + err.Error()
			} else {
				checks["eventstore"] = "ready"
			}
		} else {
			checks["eventstore"] = "not configured"
		}

		if app.Legacy != nil {
			if err := app.Legacy.Health(r.Context()); err != nil {
				checks["legacy_registry"] = "not ready: " + err.Error()
			} else {
				checks["legacy_registry"] = "ready"
			}
		} else {
			checks["legacy_registry"] = "not configured"
		}

		allReady := true
		for _, status := range checks {
			if status != "ready" && status != "not configured" {
				allReady = false
				break
			}
		}

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}
