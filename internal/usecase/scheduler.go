package usecase

import (
	"context"
	"log/slog"
	"time"

	"CropInsights/internal/logging"
	"CropInsights/internal/ports"
)

// Scheduler wires the cron driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	location *time.Location
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop the daily run. Each tick
// processes the day before the tick in loc.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, loc *time.Location, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scheduler{driver: driver, pipeline: pipeline, location: loc, logger: logger}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		day := Yesterday(trigger, s.location)
		stats, err := s.pipeline.Run(ctx, day)
		if err != nil {
			s.logger.Error("scheduled run failed", "date", day.Format("2006-01-02"), "error", err)
			return
		}
		s.logger.Info("scheduled run completed", "date", stats.Date, "insights", stats.InsightCount)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
