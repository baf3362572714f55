// Package analysis holds the three language-model steps of the news pipeline:
// relevance classification, insight extraction and TL;DR aggregation.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"CropInsights/internal/config"
	"CropInsights/internal/logging"
	"CropInsights/internal/ports"
)

// Profile describes the business the prompts are written for.
type Profile struct {
	Commodity    string
	Company      string
	Country      string
	Markets      string
	InsightWords int
}

// ProfileFromConfig maps the analysis config section onto a Profile.
func ProfileFromConfig(cfg config.AnalysisConfig) Profile {
	return Profile{
		Commodity:    cfg.Commodity,
		Company:      cfg.Company,
		Country:      cfg.Country,
		Markets:      cfg.Markets,
		InsightWords: cfg.InsightWord,
	}
}

// Options are shared by every analysis step.
type Options struct {
	Profile Profile
	// Timeout bounds each completion call; zero disables the bound.
	Timeout time.Duration
	Logger  *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.Discard()
	}
	return o.Logger
}

// complete runs one completion under the per-call timeout. timedOut is set only
// when the call's own deadline fired while the caller's context was still live;
// in that case err is nil so callers can apply their timeout policy.
func complete(ctx context.Context, c ports.Completer, timeout time.Duration, system, user string) (out string, timedOut bool, err error) {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err = c.Complete(callCtx, system, user)
	if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return "", true, nil
	}
	return out, false, err
}
