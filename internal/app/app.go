package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"SupplierScout/internal/config"
	"SupplierScout/internal/domain"
	"SupplierScout/internal/infrastructure/llm"
	"SupplierScout/internal/infrastructure/serp"
	"SupplierScout/internal/infrastructure/storage"
	"SupplierScout/internal/infrastructure/web"
	"SupplierScout/internal/logging"
	"SupplierScout/internal/ports"
	"SupplierScout/internal/usecase"
)

// Application wires configs to the search pipeline and its adapters.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	pipeline   *usecase.Pipeline
	repository ports.SessionRepository
	db         *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	search := serp.NewClient(cfg.Serp.APIKey, serp.Options{
		Engine:     cfg.Serp.Engine,
		BaseURL:    cfg.Serp.BaseURL,
		MaxResults: cfg.Serp.MaxResults,
		QPS:        cfg.Serp.QPS,
	}, baseLogger.With("component", "serp"))

	classifier := llm.NewClassifier(cfg.LLM.APIKey, cfg.LLM.Endpoint, cfg.LLM.Model,
		baseLogger.With("component", "classifier"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Search:     search,
		Fetcher:    web.NewFetcher(baseLogger.With("component", "fetcher")),
		Discoverer: web.NewDiscoverer(baseLogger.With("component", "discovery")),
		Classifier: classifier,
		Logger:     baseLogger.With("component", "pipeline"),
		Options: usecase.PipelineOptions{
			MaxQueries:         cfg.Pipeline.MaxQueries,
			FanoutCap:          cfg.Pipeline.FanoutCap,
			OverallTimeout:     cfg.Pipeline.OverallTimeout(),
			MaxResultsPerQuery: cfg.Pipeline.MaxResults,
			Multilingual:       cfg.Pipeline.Multilingual,
		},
	})

	var db *sql.DB
	if cfg.Database.DSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
	}

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		pipeline:   pipeline,
		repository: storage.NewPostgresRepository(db),
		db:         db,
	}, nil
}

// Search runs one supplier search session and persists its outcome when
// storage is configured. Persistence failures are logged, never fatal.
func (a *Application) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchReport, error) {
	if req.Mode == "" {
		req.Mode = domain.ExtractionMode(a.cfg.Pipeline.Mode)
	}

	report, err := a.pipeline.Run(ctx, req)
	if err != nil {
		return domain.SearchReport{}, err
	}

	if err := a.repository.SaveSession(ctx, req, report); err != nil {
		a.logger.Warn("session not persisted", "session", report.SessionID, "error", err)
	}
	return report, nil
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
