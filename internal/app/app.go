package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"CropInsights/internal/analysis"
	"CropInsights/internal/config"
	"CropInsights/internal/domain"
	"CropInsights/internal/httpapi"
	"CropInsights/internal/infrastructure/llm"
	"CropInsights/internal/infrastructure/ml"
	"CropInsights/internal/infrastructure/parser"
	"CropInsights/internal/infrastructure/scheduler"
	"CropInsights/internal/infrastructure/storage"
	"CropInsights/internal/infrastructure/telegram"
	"CropInsights/internal/logging"
	"CropInsights/internal/ports"
	"CropInsights/internal/scanner"
	"CropInsights/internal/usecase"
	"CropInsights/internal/yield"
)

// ErrPipelineUnavailable is returned when news processing is requested
// without a configured language model.
var ErrPipelineUnavailable = errors.New("news pipeline unavailable: no llm api key configured")

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	store     ports.InsightStore
	closeDB   func() error
	pipeline  *usecase.Pipeline
	districts *yield.Service
}

// New builds the runnable application. The news pipeline is only assembled
// when an LLM key is configured; district endpoints work regardless.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	pipeline, err := a.buildPipeline()
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		baseLogger.Warn("llm api key missing, news pipeline disabled", "provider", cfg.LLM.Provider)
	case err != nil:
		_ = a.Close()
		return nil, err
	default:
		a.pipeline = pipeline
	}

	a.districts = a.buildDistricts()
	return a, nil
}

func (a *Application) openStore(ctx context.Context) error {
	switch a.cfg.Storage.Driver {
	case "", config.StorageDriverFile:
		store, err := storage.NewFileStore(a.cfg.Storage.Dir, a.cfg.Storage.MarkerPath)
		if err != nil {
			return err
		}
		a.store = store
	case config.StorageDriverPostgres:
		store, err := storage.OpenPostgres(ctx, a.cfg.Storage.DSN)
		if err != nil {
			return err
		}
		a.store = store
		a.closeDB = store.Close
	default:
		return fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
	}
	a.logger.Info("insight store ready", "driver", a.cfg.Storage.Driver)
	return nil
}

func (a *Application) buildPipeline() (*usecase.Pipeline, error) {
	completer, err := llm.New(a.cfg.LLM)
	if err != nil {
		return nil, err
	}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewNewsAPIScanner(nil, a.cfg.Providers.NewsAPIKey))
	registry.Register(parser.NewRSSScanner(nil))

	source := parser.NewStrategySource(registry, a.cfg.Sites, a.logger.With("component", "source"))

	opts := analysis.Options{
		Profile: analysis.ProfileFromConfig(a.cfg.Analysis),
		Timeout: a.cfg.LLM.Timeout,
		Logger:  a.logger.With("component", "analysis"),
	}

	var notifier ports.Notifier
	if tg := a.cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		n, err := telegram.NewNotifier(tg.BotToken, tg.ChatID)
		if err != nil {
			a.logger.Warn("telegram notifier disabled", "error", err)
		} else {
			notifier = n
		}
	}

	return usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Classifier: analysis.NewClassifier(completer, opts),
		Extractor:  analysis.NewExtractor(completer, opts),
		Aggregator: analysis.NewAggregator(completer, opts),
		Store:      a.store,
		Notifier:   notifier,
		Logger:     a.logger.With("component", "pipeline"),
	}), nil
}

// buildDistricts loads whatever district assets exist; missing files only
// disable the endpoints that need them.
func (a *Application) buildDistricts() *yield.Service {
	log := a.logger.With("component", "yield")

	var dataset *yield.Dataset
	if ds, err := yield.LoadDataset(a.cfg.Yield.HistoricalCSV); err != nil {
		log.Warn("historical data unavailable", "path", a.cfg.Yield.HistoricalCSV, "error", err)
	} else {
		dataset = ds
	}

	var geo *yield.GeoIndex
	if g, err := yield.LoadGeoIndex(a.cfg.Yield.DistrictsGeoJSON, a.cfg.Yield.GridGeoJSON); err != nil {
		log.Warn("district geojson unavailable", "error", err)
	} else {
		geo = g
	}

	model := ml.NewClient(a.cfg.ML.InferenceURL, a.cfg.ML.APIKey, a.cfg.ML.Timeout)
	return yield.NewService(dataset, model, geo)
}

// Store exposes the configured insight store.
func (a *Application) Store() ports.InsightStore {
	return a.store
}

// RunOnce processes dateParam (or yesterday when empty).
func (a *Application) RunOnce(ctx context.Context, dateParam string) (domain.RunStats, error) {
	if a.pipeline == nil {
		return domain.RunStats{}, ErrPipelineUnavailable
	}
	day, err := usecase.ResolveDate(dateParam, time.Now(), a.cfg.Scheduler.Location())
	if err != nil {
		return domain.RunStats{}, err
	}
	return a.pipeline.Run(ctx, day)
}

// IngestFile runs the manual ingestion flow for an exported article file.
func (a *Application) IngestFile(ctx context.Context, path string) ([]domain.RunStats, error) {
	if a.pipeline == nil {
		return nil, ErrPipelineUnavailable
	}
	return a.pipeline.IngestFile(ctx, parser.ManualFileLoader{}, path)
}

// Router builds the HTTP surface.
func (a *Application) Router() *gin.Engine {
	deps := httpapi.Deps{
		Insights:       a.store,
		Districts:      a.districts,
		Location:       a.cfg.Scheduler.Location(),
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Logger:         a.logger.With("component", "http"),
	}
	if a.pipeline != nil {
		deps.Runner = a.pipeline
	}
	return httpapi.NewRouter(deps)
}

// Serve runs the HTTP server and, when enabled, the daily scheduler until
// ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	if a.cfg.Scheduler.Enabled && a.pipeline != nil {
		if err := scheduler.Validate(a.cfg.Scheduler.CronExpression); err != nil {
			return err
		}
		driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
		sched := usecase.NewScheduler(driver, a.pipeline, a.cfg.Scheduler.Location(), a.logger.With("component", "scheduler"))
		if err := sched.Start(ctx); err != nil {
			return err
		}
		if next, err := driver.Next(time.Now()); err == nil {
			a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression, "next_run", next)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = sched.Stop(stopCtx)
		}()
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	a.logger.Info("http server stopped")
	return nil
}

// Close releases the database pool when the Postgres store is in use.
func (a *Application) Close() error {
	if a.closeDB != nil {
		return a.closeDB()
	}
	return nil
}

// PipelineEnabled reports whether news processing is available.
func (a *Application) PipelineEnabled() bool {
	return a.pipeline != nil
}
