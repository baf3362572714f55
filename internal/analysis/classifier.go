package analysis

import (
	"context"
	"fmt"

	"CropInsights/internal/domain"
	"CropInsights/internal/ports"
)

// Classifier labels headlines through a single completion per article.
type Classifier struct {
	completer ports.Completer
	opts      Options
}

var _ ports.RelevanceClassifier = (*Classifier)(nil)

// NewClassifier wires the completer that answers relevance prompts.
func NewClassifier(completer ports.Completer, opts Options) *Classifier {
	return &Classifier{completer: completer, opts: opts}
}

// Classify returns Relevant only for an exact "Relevant" answer; any other text,
// and a per-call timeout, falls back to Irrelevant.
func (c *Classifier) Classify(ctx context.Context, headline string) (domain.Label, error) {
	raw, timedOut, err := complete(ctx, c.completer, c.opts.Timeout,
		classifySystemPrompt(c.opts.Profile), classifyUserPrompt(c.opts.Profile, headline))
	if err != nil {
		return domain.LabelIrrelevant, fmt.Errorf("classify headline: %w", err)
	}
	if timedOut {
		c.opts.logger().Warn("classification timed out, treating as irrelevant", "headline", headline)
		return domain.LabelIrrelevant, nil
	}

	label := domain.ParseLabel(raw)
	c.opts.logger().Debug("headline classified", "headline", headline, "label", label, "raw", raw)
	return label, nil
}
