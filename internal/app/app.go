package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"BrandMonitor/internal/config"
	"BrandMonitor/internal/infrastructure/llm"
	"BrandMonitor/internal/infrastructure/ratelimit"
	"BrandMonitor/internal/infrastructure/scheduler"
	"BrandMonitor/internal/infrastructure/search"
	"BrandMonitor/internal/infrastructure/storage"
	"BrandMonitor/internal/infrastructure/telegram"
	"BrandMonitor/internal/infrastructure/validator"
	"BrandMonitor/internal/logging"
	"BrandMonitor/internal/ports"
	"BrandMonitor/internal/provider"
	"BrandMonitor/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	db      *sql.DB
	monitor *usecase.Monitor
	sched   *usecase.ScanScheduler
	logger  *slog.Logger
}

// New opens the database, prepares the schema and assembles the pipeline.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := storage.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	limiter := ratelimit.New(cfg.Providers.MinRequestInterval)

	registry := provider.NewRegistry()
	if cfg.Providers.Google.APIKey != "" && cfg.Providers.Google.SearchEngineID != "" {
		registry.Register(search.NewGoogleSearch(cfg.Providers.Google, limiter,
			baseLogger.With("component", "search.google")))
	}
	if cfg.Providers.NewsAPI.APIKey != "" {
		registry.Register(search.NewNewsAPI(cfg.Providers.NewsAPI, limiter))
	}
	if cfg.Providers.GoogleNews.Enabled {
		registry.Register(search.NewGoogleNews(cfg.Providers.GoogleNews, limiter))
	}
	var analyzer ports.SentimentAnalyzer
	if cfg.Providers.AI.APIKey != "" {
		chat := newChatClient(cfg.Providers.AI, limiter)
		registry.Register(llm.NewMentionProvider(chat))
		analyzer = chat
	}
	if len(registry.All()) == 0 {
		db.Close()
		return nil, fmt.Errorf("no search providers configured")
	}

	var notifier ports.Notifier
	if tg := telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID); tg.Configured() {
		notifier = tg
	}

	monitor := usecase.NewMonitor(
		usecase.NewAggregator(registry, baseLogger.With("component", "aggregator")),
		storage.NewResultsRepository(db),
		storage.NewClientRepository(db),
		storage.NewAuditLog(db),
		validator.NewProber(nil, baseLogger.With("component", "validator")),
		analyzer,
		notifier,
		cfg.Monitoring.MaxResultsPerClient,
		baseLogger.With("component", "monitor"),
	)

	sched := usecase.NewScanScheduler(monitor,
		scheduler.NewIntervalScheduler(cfg.Monitoring.Cadence),
		baseLogger.With("component", "scheduler"))

	return &Application{
		cfg:     cfg,
		db:      db,
		monitor: monitor,
		sched:   sched,
		logger:  baseLogger,
	}, nil
}

func newChatClient(cfg config.AIConfig, limiter *ratelimit.Limiter) *llm.ChatClient {
	if cfg.Provider == "perplexity" {
		return llm.NewPerplexity(cfg, limiter)
	}
	return llm.NewOpenRouter(cfg, limiter)
}

// Monitor exposes the scan use case for callers embedding the application.
func (a *Application) Monitor() *usecase.Monitor {
	return a.monitor
}

// Run performs one batch scan across all active clients.
func (a *Application) Run(ctx context.Context) error {
	batch, err := a.monitor.ScanAllClients(ctx)
	if err != nil {
		return err
	}

	a.logger.Info("batch scan finished",
		"clients", len(batch.Scanned),
		"new", batch.TotalResults,
		"failures", len(batch.Errors))
	return nil
}

// RunScheduled starts cadence-driven scans and blocks until the context ends.
func (a *Application) RunScheduled(ctx context.Context) error {
	if err := a.sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()
	return a.sched.Stop(context.Background())
}

// Close releases the database handle.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
