package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"CropInsights/internal/domain"
	"CropInsights/internal/logging"
	"CropInsights/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Classifier ports.RelevanceClassifier
	Extractor  ports.InsightExtractor
	Aggregator ports.SummaryAggregator
	Store      ports.InsightStore
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Pipeline implements the news-insight workflow for one date at a time.
type Pipeline struct {
	source     ports.ArticleSource
	classifier ports.RelevanceClassifier
	extractor  ports.InsightExtractor
	aggregator ports.SummaryAggregator
	store      ports.InsightStore
	notifier   ports.Notifier
	logger     *slog.Logger

	inflight singleflight.Group
	dates    sync.Map // date key -> *sync.Mutex
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Pipeline{
		source:     deps.Source,
		classifier: deps.Classifier,
		extractor:  deps.Extractor,
		aggregator: deps.Aggregator,
		store:      deps.Store,
		notifier:   deps.Notifier,
		logger:     logger,
	}
}

// Run fetches, classifies, extracts, summarizes and persists the bundle for
// day, then records the marker. Concurrent calls for the same date share one
// execution. Nothing is persisted when any stage fails.
//
// The shared execution does not stop when the caller that started it goes
// away; only per-call LLM timeouts bound it.
func (p *Pipeline) Run(ctx context.Context, day time.Time) (domain.RunStats, error) {
	date := domain.DateKey(day)
	runCtx := context.WithoutCancel(ctx)
	v, err, shared := p.inflight.Do(date, func() (interface{}, error) {
		unlock := p.lockDate(date)
		defer unlock()
		return p.run(runCtx, day, date)
	})
	if shared {
		p.logger.Debug("joined in-flight run", "date", date)
	}
	if err != nil {
		return domain.RunStats{}, err
	}
	return v.(domain.RunStats), nil
}

func (p *Pipeline) run(ctx context.Context, day time.Time, date string) (domain.RunStats, error) {
	if p.source == nil || p.classifier == nil || p.extractor == nil || p.aggregator == nil || p.store == nil {
		return domain.RunStats{}, fmt.Errorf("pipeline is not fully configured")
	}

	runID := uuid.NewString()
	log := p.logger.With("run_id", runID, "date", date)
	started := time.Now()
	log.Info("pipeline run started")

	articles, err := p.source.FetchDaily(ctx, day)
	if err != nil {
		return domain.RunStats{}, fmt.Errorf("fetch articles for %s: %w", date, err)
	}
	log.Info("articles fetched", "count", len(articles))

	summary, err := p.analyze(ctx, log, articles)
	if err != nil {
		return domain.RunStats{}, err
	}

	if err := p.store.Save(ctx, domain.NewBundle(date, summary)); err != nil {
		return domain.RunStats{}, fmt.Errorf("save bundle %s: %w", date, err)
	}
	if err := p.store.MarkRun(ctx, date); err != nil {
		return domain.RunStats{}, fmt.Errorf("mark run %s: %w", date, err)
	}

	p.notify(ctx, log, date, summary)

	log.Info("pipeline run finished",
		"total_articles", summary.TotalArticles,
		"relevant", summary.RelevantCount,
		"insights", summary.InsightCount,
		"elapsed", time.Since(started))

	return domain.RunStats{
		RunID:         runID,
		Date:          date,
		TotalArticles: summary.TotalArticles,
		RelevantCount: summary.RelevantCount,
		InsightCount:  summary.InsightCount,
	}, nil
}

// lockDate serializes writers of one date's bundle, pipeline runs and manual
// batches alike.
func (p *Pipeline) lockDate(date string) func() {
	v, _ := p.dates.LoadOrStore(date, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// analyze runs classification, extraction and aggregation without persisting.
func (p *Pipeline) analyze(ctx context.Context, log *slog.Logger, articles []domain.Article) (domain.RunSummary, error) {
	insights := []domain.Insight{}
	for _, article := range articles {
		if !article.HasTitle() {
			log.Debug("skip untitled article", "url", article.URL)
			continue
		}

		label, err := p.classifier.Classify(ctx, article.Title)
		if err != nil {
			return domain.RunSummary{}, fmt.Errorf("classify %q: %w", article.Title, err)
		}
		verdict := domain.Verdict{Article: article, Label: label}
		log.Debug("article classified", "title", verdict.Article.Title, "label", verdict.Label)
		if !verdict.Relevant() {
			continue
		}

		insight, err := p.extractor.Extract(ctx, verdict.Article)
		if err != nil {
			return domain.RunSummary{}, fmt.Errorf("extract insight for %q: %w", article.Title, err)
		}
		insights = append(insights, insight)
	}

	points, err := p.aggregator.Summarize(ctx, insights)
	if err != nil {
		return domain.RunSummary{}, fmt.Errorf("summarize insights: %w", err)
	}

	return domain.RunSummary{
		TotalArticles: len(articles),
		RelevantCount: len(insights),
		InsightCount:  len(insights),
		SummaryPoints: points,
		Insights:      insights,
	}, nil
}

func (p *Pipeline) notify(ctx context.Context, log *slog.Logger, date string, summary domain.RunSummary) {
	if p.notifier == nil {
		return
	}
	message := buildDigestMessage(date, summary)
	if message == "" {
		return
	}
	if err := p.notifier.PublishDigest(ctx, message); err != nil {
		log.Warn("publish digest failed", "error", err)
	}
}

// buildDigestMessage renders the TL;DR and insight links; it returns "" when
// there is nothing worth sending.
func buildDigestMessage(date string, summary domain.RunSummary) string {
	var points []string
	for _, point := range summary.SummaryPoints {
		if strings.TrimSpace(point) != "" {
			points = append(points, strings.TrimSpace(point))
		}
	}
	if len(points) == 0 && len(summary.Insights) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TL;DR for %s\n\n", date)
	for _, point := range points {
		if !strings.HasPrefix(point, "-") && !strings.HasPrefix(point, "•") {
			point = "- " + point
		}
		b.WriteString(point)
		b.WriteString("\n")
	}
	if len(summary.Insights) > 0 {
		fmt.Fprintf(&b, "\nSources (%d of %d articles relevant):\n", summary.RelevantCount, summary.TotalArticles)
		for _, insight := range summary.Insights {
			fmt.Fprintf(&b, "- %s\n%s\n", insight.Title, insight.URL)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
