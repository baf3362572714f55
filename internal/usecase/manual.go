package usecase

import (
	"context"
	"fmt"

	"CropInsights/internal/domain"
	"CropInsights/internal/ports"
)

// IngestFile processes a manually exported article file. Each date in the
// file gets its own bundle, processed in ascending date order. The last-run
// marker is left untouched.
func (p *Pipeline) IngestFile(ctx context.Context, loader ports.BatchLoader, path string) ([]domain.RunStats, error) {
	if loader == nil {
		return nil, fmt.Errorf("batch loader is not configured")
	}
	if p.classifier == nil || p.extractor == nil || p.aggregator == nil || p.store == nil {
		return nil, fmt.Errorf("pipeline is not fully configured")
	}

	batches, err := loader.LoadBatches(path)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		p.logger.Warn("no articles found in manual file", "path", path)
		return []domain.RunStats{}, nil
	}

	stats := make([]domain.RunStats, 0, len(batches))
	for _, batch := range batches {
		batchStats, err := p.ingestBatch(ctx, batch)
		if err != nil {
			return stats, err
		}
		stats = append(stats, batchStats)
	}
	return stats, nil
}

// ingestBatch waits for any in-flight run of the same date, so the bundle
// written last is whole and belongs to whichever finished last.
func (p *Pipeline) ingestBatch(ctx context.Context, batch domain.ArticleBatch) (domain.RunStats, error) {
	unlock := p.lockDate(batch.Date)
	defer unlock()

	log := p.logger.With("date", batch.Date, "source", "manual")
	log.Info("processing manual batch", "articles", len(batch.Articles))

	summary, err := p.analyze(ctx, log, batch.Articles)
	if err != nil {
		return domain.RunStats{}, fmt.Errorf("manual batch %s: %w", batch.Date, err)
	}
	if err := p.store.Save(ctx, domain.NewBundle(batch.Date, summary)); err != nil {
		return domain.RunStats{}, fmt.Errorf("save bundle %s: %w", batch.Date, err)
	}

	return domain.RunStats{
		Date:          batch.Date,
		TotalArticles: summary.TotalArticles,
		RelevantCount: summary.RelevantCount,
		InsightCount:  summary.InsightCount,
	}, nil
}
