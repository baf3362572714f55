package analysis

import (
	"context"
	"fmt"
	"strings"

	"CropInsights/internal/domain"
	"CropInsights/internal/ports"
)

// Aggregator condenses all insights of a run into TL;DR lines.
type Aggregator struct {
	completer ports.Completer
	opts      Options
}

var _ ports.SummaryAggregator = (*Aggregator)(nil)

// NewAggregator wires the completer that writes the TL;DR.
func NewAggregator(completer ports.Completer, opts Options) *Aggregator {
	return &Aggregator{completer: completer, opts: opts}
}

// Summarize is invoked even with no insights; the prompt then asks for a blank
// answer, which comes back as a single empty line.
func (a *Aggregator) Summarize(ctx context.Context, insights []domain.Insight) ([]string, error) {
	raw, timedOut, err := complete(ctx, a.completer, a.opts.Timeout,
		summarySystemPrompt(a.opts.Profile), summaryUserPrompt(a.opts.Profile, joinInsights(insights)))
	if err != nil {
		return nil, fmt.Errorf("summarize insights: %w", err)
	}
	if timedOut {
		a.opts.logger().Warn("summary timed out, storing blank tldr", "insights", len(insights))
		return []string{""}, nil
	}

	return splitLines(raw), nil
}

func joinInsights(insights []domain.Insight) string {
	texts := make([]string, 0, len(insights))
	for _, in := range insights {
		texts = append(texts, in.Text)
	}
	return strings.Join(texts, "\n")
}

// splitLines never returns an empty slice: a blank response is [""].
func splitLines(raw string) []string {
	return strings.Split(strings.TrimSpace(raw), "\n")
}
