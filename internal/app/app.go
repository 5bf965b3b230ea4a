package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"VideoSummarizer/internal/catalog"
	"VideoSummarizer/internal/config"
	"VideoSummarizer/internal/domain"
	"VideoSummarizer/internal/infrastructure/backend"
	"VideoSummarizer/internal/infrastructure/probe"
	"VideoSummarizer/internal/infrastructure/storage"
	"VideoSummarizer/internal/infrastructure/telegram"
	"VideoSummarizer/internal/logging"
	"VideoSummarizer/internal/metrics"
	"VideoSummarizer/internal/ports"
	"VideoSummarizer/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	backend *backend.Client
	db      *sql.DB
	history ports.RunRepository
	catalog catalog.Catalog
	deps    usecase.ProcessorDeps
}

// New builds the application. Storage is opened and migrated here; the other
// adapters do no I/O until a run uses them.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	client := backend.NewClient(backend.Options{
		BaseURL:        cfg.Backend.BaseURL,
		Version:        cfg.Backend.UserAgentVersion,
		RequestTimeout: cfg.Backend.RequestTimeout,
	})

	a := &Application{
		cfg:     cfg,
		logger:  baseLogger,
		backend: client,
		catalog: catalog.Defaults().WithDefaults(
			cfg.Analysis.AnalysisModel,
			cfg.Analysis.QualityModel,
			cfg.Analysis.TargetLanguage,
		),
	}

	if cfg.Storage.Path != "" {
		db, err := storage.Open(cfg.Storage.Path, cfg.Storage.BusyTimeout)
		if err != nil {
			return nil, fmt.Errorf("open run history: %w", err)
		}
		repo := storage.NewSQLiteRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate run history: %w", err)
		}
		a.db = db
		a.history = repo
	}

	deps := usecase.ProcessorDeps{
		Backend:      client,
		Repository:   a.history,
		Recorder:     metrics.Recorder{},
		ScrapTimeout: cfg.Backend.ScrapTimeout,
		Logger:       baseLogger.With("component", "processor"),
		Policy: usecase.Policy{
			AcceptableScore: cfg.Quality.AcceptableScore,
			ExcellentScore:  cfg.Quality.ExcellentScore,
			GoodScore:       cfg.Quality.GoodScore,
		},
	}
	if cfg.Probe.IsEnabled() {
		deps.Probe = probe.NewWatchPageProbe(&http.Client{Timeout: cfg.Probe.Timeout})
	}
	notifier := telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	if notifier.Configured() {
		deps.Notifier = notifier
	}
	a.deps = deps

	return a, nil
}

// RefreshCatalog pulls models and languages from the backend /config endpoint.
// A failure keeps the local catalog and is only logged.
func (a *Application) RefreshCatalog(ctx context.Context) catalog.Catalog {
	remote, err := a.backend.Configuration(ctx)
	if err != nil {
		a.logger.Warn("backend configuration unavailable, using local catalog", "error", err)
		return a.catalog
	}
	a.catalog = a.catalog.WithBackend(remote)
	return a.catalog
}

// Catalog returns the current model and language catalog.
func (a *Application) Catalog() catalog.Catalog {
	return a.catalog
}

// DefaultOptions returns the configured options. Models and language are left
// empty so the catalog supplies its current defaults.
func (a *Application) DefaultOptions() catalog.Options {
	return catalog.Options{FastMode: a.cfg.Analysis.FastMode}
}

// Processor builds a processor bound to the current catalog.
func (a *Application) Processor() *usecase.Processor {
	deps := a.deps
	deps.Catalog = a.catalog
	return usecase.NewProcessor(deps)
}

// Summarize runs one video.
func (a *Application) Summarize(ctx context.Context, videoURL string, opts catalog.Options, observer usecase.Observer) domain.Result {
	return a.Processor().Process(ctx, videoURL, opts, observer)
}

// SummarizeBatch runs several videos with the configured concurrency and pacing.
func (a *Application) SummarizeBatch(ctx context.Context, urls []string, opts catalog.Options, observerFor func(int, string) usecase.Observer) []domain.Result {
	return usecase.NewBatch(a.Processor()).Run(ctx, urls, usecase.BatchOptions{
		Concurrency:   a.cfg.Batch.Concurrency,
		RatePerMinute: a.cfg.Batch.RatePerMinute,
		Options:       opts,
		ObserverFor:   observerFor,
	})
}

// Health asks the backend for its liveness report.
func (a *Application) Health(ctx context.Context) (domain.HealthStatus, error) {
	return a.backend.Health(ctx)
}

// History lists recent runs. It returns nil when storage is disabled.
func (a *Application) History(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if a.history == nil {
		return nil, nil
	}
	return a.history.RecentRuns(ctx, limit)
}

// ServeMetrics blocks serving /metrics until ctx is done. It is a no-op when
// no address is configured.
func (a *Application) ServeMetrics(ctx context.Context) error {
	if a.cfg.Metrics.Addr == "" {
		return nil
	}
	return metrics.Serve(ctx, a.cfg.Metrics.Addr, a.logger.With("component", "metrics"))
}

// Close releases the run history database.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
