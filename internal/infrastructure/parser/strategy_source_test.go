package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"CropInsights/internal/config"
	"CropInsights/internal/domain"
	"CropInsights/internal/logging"
	"CropInsights/internal/scanner"
)

type stubScanner struct {
	name     string
	articles []domain.Article
	err      error
	seen     []scanner.Request
}

func (s *stubScanner) Name() string { return s.name }

func (s *stubScanner) Scan(_ context.Context, req scanner.Request) ([]domain.Article, error) {
	s.seen = append(s.seen, req)
	return s.articles, s.err
}

func TestStrategySourceAggregatesSites(t *testing.T) {
	t.Parallel()

	news := &stubScanner{name: "newsapi", articles: []domain.Article{{Title: "A"}, {Title: "B", Source: "Reuters"}}}
	feeds := &stubScanner{name: "rss", articles: []domain.Article{{Title: "C"}}}

	reg := scanner.NewRegistry()
	reg.Register(news)
	reg.Register(feeds)

	sites := []config.SiteConfig{
		{Name: "newsapi", Scanner: "newsapi", Options: map[string]string{"query": "rice"},
			Categories: []config.CategoryConfig{{Name: "everything", URL: "https://newsapi.org/v2/everything"}}},
		{Name: "dawn", Scanner: "rss"},
	}
	src := NewStrategySource(reg, sites, logging.Discard())

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	articles, err := src.FetchDaily(context.Background(), day)
	if err != nil {
		t.Fatalf("FetchDaily: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(articles))
	}
	if articles[0].Source != "newsapi" || articles[1].Source != "Reuters" || articles[2].Source != "dawn" {
		t.Fatalf("unexpected sources: %+v", articles)
	}

	req := news.seen[0]
	if !req.Day.Equal(day) || req.Option("query", "") != "rice" || len(req.Categories) != 1 {
		t.Fatalf("request not forwarded: %+v", req)
	}
}

func TestStrategySourceSkipsUpstreamFailures(t *testing.T) {
	t.Parallel()

	down := &stubScanner{name: "newsapi", err: &scanner.UpstreamStatusError{Site: "newsapi", StatusCode: 500}}
	reg := scanner.NewRegistry()
	reg.Register(down)

	src := NewStrategySource(reg, []config.SiteConfig{{Name: "newsapi", Scanner: "newsapi"}}, logging.Discard())
	articles, err := src.FetchDaily(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("upstream status should not fail the fetch: %v", err)
	}
	if articles == nil || len(articles) != 0 {
		t.Fatalf("expected empty article list, got %#v", articles)
	}
}

func TestStrategySourceKeepsPartialResultsOnUpstreamFailure(t *testing.T) {
	t.Parallel()

	partial := &stubScanner{
		name:     "newsapi",
		articles: []domain.Article{{Title: "A"}},
		err:      &scanner.UpstreamStatusError{Site: "newsapi", StatusCode: 429},
	}
	feeds := &stubScanner{name: "rss", articles: []domain.Article{{Title: "B"}}}
	reg := scanner.NewRegistry()
	reg.Register(partial)
	reg.Register(feeds)

	sites := []config.SiteConfig{{Name: "newsapi", Scanner: "newsapi"}, {Name: "dawn", Scanner: "rss"}}
	src := NewStrategySource(reg, sites, logging.Discard())
	articles, err := src.FetchDaily(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("FetchDaily: %v", err)
	}
	if len(articles) != 2 || articles[0].Title != "A" || articles[0].Source != "newsapi" || articles[1].Title != "B" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
}

func TestStrategySourcePropagatesTransportErrors(t *testing.T) {
	t.Parallel()

	transport := errors.New("dial tcp: connection refused")
	reg := scanner.NewRegistry()
	reg.Register(&stubScanner{name: "newsapi", err: transport})

	src := NewStrategySource(reg, []config.SiteConfig{{Name: "newsapi", Scanner: "newsapi"}}, nil)
	if _, err := src.FetchDaily(context.Background(), time.Now()); !errors.Is(err, transport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestStrategySourceUnknownScanner(t *testing.T) {
	t.Parallel()

	src := NewStrategySource(scanner.NewRegistry(), []config.SiteConfig{{Name: "x", Scanner: "usda"}}, nil)
	if _, err := src.FetchDaily(context.Background(), time.Now()); err == nil {
		t.Fatalf("expected unknown scanner error")
	}
}
