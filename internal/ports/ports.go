package ports

import (
	"context"
	"time"

	"CropInsights/internal/domain"
)

// ArticleSource pulls candidate articles published on a given day.
type ArticleSource interface {
	FetchDaily(ctx context.Context, day time.Time) ([]domain.Article, error)
}

// BatchLoader reads manually supplied articles grouped by date.
type BatchLoader interface {
	LoadBatches(path string) ([]domain.ArticleBatch, error)
}

// Completer sends one system+user prompt pair to a text-generation service
// and returns the raw response text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// RelevanceClassifier decides whether a headline matters for the business.
type RelevanceClassifier interface {
	Classify(ctx context.Context, headline string) (domain.Label, error)
}

// InsightExtractor turns a relevant article into a business-impact paragraph.
type InsightExtractor interface {
	Extract(ctx context.Context, article domain.Article) (domain.Insight, error)
}

// SummaryAggregator condenses a run's insights into ordered TL;DR lines.
type SummaryAggregator interface {
	Summarize(ctx context.Context, insights []domain.Insight) ([]string, error)
}

// InsightStore persists per-date bundles and the last-run marker.
type InsightStore interface {
	Save(ctx context.Context, bundle domain.InsightBundle) error
	Load(ctx context.Context, date string) (domain.InsightBundle, error)
	ListDates(ctx context.Context) ([]string, error)
	MarkRun(ctx context.Context, date string) error
	LastRun(ctx context.Context) (string, bool, error)
}

// Notifier streams finished digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// YieldModel runs inference against the trained yield model.
type YieldModel interface {
	PredictYield(ctx context.Context, features []float64) (float64, error)
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
