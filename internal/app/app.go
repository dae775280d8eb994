package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/coursework-backend/internal/data/db"
	httpserver "github.com/yungbote/coursework-backend/internal/http"
	"github.com/yungbote/coursework-backend/internal/observability"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"github.com/yungbote/coursework-backend/internal/realtime/invalidation"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpserver.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Notifier invalidation.Notifier
	Metrics  *observability.Metrics

	pg           *db.PostgresService
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})
	metrics := observability.Init(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	theDB := pg.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	if err := db.EnsureLearningIndexes(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres indexes: %w", err)
	}

	notifier := wireNotifier(log, cfg)

	a, err := assemble(theDB, log, cfg, notifier, metrics)
	if err != nil {
		_ = notifier.Close()
		_ = pg.Close()
		log.Sync()
		return nil, err
	}
	a.pg = pg
	a.otelShutdown = otelShutdown
	return a, nil
}

// assemble wires repos, services and HTTP on an already migrated database.
func assemble(theDB *gorm.DB, log *logger.Logger, cfg Config, notifier invalidation.Notifier, metrics *observability.Metrics) (*App, error) {
	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, metrics)
	if err != nil {
		return nil, err
	}
	handlerset := wireHandlers(theDB, log, serviceset, notifier)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:      log,
		DB:       theDB,
		Server:   &httpserver.Server{Engine: router},
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Notifier: notifier,
		Metrics:  metrics,
	}, nil
}

// wireNotifier falls back to a no-op notifier when Redis is not configured or
// unreachable.
func wireNotifier(log *logger.Logger, cfg Config) invalidation.Notifier {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, invalidation notifications disabled")
		return invalidation.NewNoop()
	}
	n, err := invalidation.NewRedisNotifier(log, cfg.RedisAddr, cfg.RedisChannel)
	if err != nil {
		log.Warn("redis notifier unavailable, invalidation notifications disabled", "error", err)
		return invalidation.NewNoop()
	}
	return n
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Starting HTTP server", "addr", addr)
	return a.Server.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("http shutdown failed", "error", err)
		}
	}
	if a.Notifier != nil {
		_ = a.Notifier.Close()
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
