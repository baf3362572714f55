package analysis

import (
	"context"
	"fmt"
	"strings"

	"CropInsights/internal/domain"
	"CropInsights/internal/ports"
)

// Extractor asks for a bounded business-impact paragraph per relevant article.
type Extractor struct {
	completer ports.Completer
	opts      Options
}

var _ ports.InsightExtractor = (*Extractor)(nil)

// NewExtractor wires the completer that writes insights.
func NewExtractor(completer ports.Completer, opts Options) *Extractor {
	return &Extractor{completer: completer, opts: opts}
}

// Extract always yields an insight for the article; empty text means no signal.
func (e *Extractor) Extract(ctx context.Context, article domain.Article) (domain.Insight, error) {
	insight := domain.Insight{Title: article.Title, URL: article.URL}

	raw, timedOut, err := complete(ctx, e.completer, e.opts.Timeout,
		extractSystemPrompt(e.opts.Profile), extractUserPrompt(e.opts.Profile, article.Body))
	if err != nil {
		return domain.Insight{}, fmt.Errorf("extract insight %q: %w", article.Title, err)
	}
	if timedOut {
		e.opts.logger().Warn("insight extraction timed out, recording empty insight", "title", article.Title)
		return insight, nil
	}

	insight.Text = strings.TrimSpace(raw)
	return insight, nil
}
