package app

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/fundgraph-backend/internal/data/db"
	fghttp "github.com/yungbote/fundgraph-backend/internal/http"
	"github.com/yungbote/fundgraph-backend/internal/observability"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *db.Service
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics
	Server   *fghttp.Server

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func NewLogger(cfg LogConfig) (*logger.Logger, error) {
	log, err := logger.NewWithOptions(logger.Options{
		Mode:     cfg.Mode,
		Level:    cfg.Level,
		FilePath: cfg.File,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func New(cfg Config) (*App, error) {
	log, err := NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	a, err := NewWithLogger(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// NewWithLogger connects storage, migrates, and wires services and HTTP.
func NewWithLogger(log *logger.Logger, cfg Config) (*App, error) {
	otelShutdown := observability.InitOTel(context.Background(), log, cfg.OTel)
	metrics := observability.Init(cfg.Metrics.Enabled)

	dbs, err := db.NewService(log, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbs.AutoMigrateAll(); err != nil {
		_ = dbs.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	if err := metrics.RegisterDBStats(dbs.DB(), "fundgraph"); err != nil {
		log.Warn("db stats collector not registered", "error", err)
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = dbs.Close()
		return nil, err
	}

	reposet := wireRepos(dbs.DB(), log)
	serviceset := wireServices(dbs.DB(), log, cfg, reposet, clients, metrics)
	handlerset := wireHandlers(log, serviceset, dbs)
	server := wireServer(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		DB:           dbs,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Metrics:      metrics,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background collectors.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Clients.AggregateCache != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.AggregateCache.Client(), 15*time.Second)
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Server.Port
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(addr)
}

func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return nil
	}
	return a.Server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
