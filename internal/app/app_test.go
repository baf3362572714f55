package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"CropInsights/internal/config"
	"CropInsights/internal/logging"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()

	cfg := config.Load(filepath.Join(root, "missing.yaml"))
	cfg.LLM.APIKey = ""
	cfg.Notifications.Telegram = config.TelegramConfig{}
	cfg.Storage = config.StorageConfig{
		Driver:     config.StorageDriverFile,
		Dir:        filepath.Join(root, "news_insights"),
		MarkerPath: filepath.Join(root, "last_execution.json"),
	}
	cfg.Yield = config.YieldConfig{
		HistoricalCSV:    filepath.Join(root, "missing.csv"),
		DistrictsGeoJSON: filepath.Join(root, "missing.geojson"),
		GridGeoJSON:      filepath.Join(root, "missing-grid.geojson"),
	}
	return cfg
}

func TestNewWithoutLLMKeepsDistrictRoutes(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), testConfig(t), logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.PipelineEnabled() {
		t.Fatalf("pipeline should be disabled without an api key")
	}
	if _, err := a.RunOnce(context.Background(), ""); !errors.Is(err, ErrPipelineUnavailable) {
		t.Fatalf("expected ErrPipelineUnavailable, got %v", err)
	}

	router := a.Router()
	for target, want := range map[string]int{
		"/health":                    http.StatusOK,
		"/districts":                 http.StatusOK,
		"/news/dates":                http.StatusOK,
		"/district/Jhang/map":        http.StatusNotFound,
		"/district/Jhang/historical": http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
		if w.Code != want {
			t.Fatalf("%s: status %d, want %d", target, w.Code, want)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/news/trigger", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("trigger without llm: status %d", w.Code)
	}
}

func TestNewRejectsUnknownStorageDriver(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Storage.Driver = "s3"
	if _, err := New(context.Background(), cfg, logging.Discard()); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestRunOnceEndToEnd(t *testing.T) {
	t.Parallel()

	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("from") != "2024-03-10" || r.URL.Query().Get("apiKey") != "news-key" {
			t.Errorf("unexpected news query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
		  {"source":{"name":"Reuters"},"title":"Rice exports surge","url":"https://e/a","content":"Exports rose."},
		  {"source":{"name":"Dawn"},"title":"","url":"https://e/untitled","content":"No title."}
		]}`))
	}))
	defer news.Close()

	var completions int32
	openai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&completions, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c","object":"chat.completion","created":1,"model":"gpt-4o-mini",
		  "choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Relevant"}}]}`))
	}))
	defer openai.Close()

	cfg := testConfig(t)
	cfg.LLM.APIKey = "llm-key"
	cfg.LLM.BaseURL = openai.URL + "/v1/"
	cfg.Providers.NewsAPIKey = "news-key"
	cfg.Sites = []config.SiteConfig{{
		Name:       "newsapi",
		Scanner:    "newsapi",
		Categories: []config.CategoryConfig{{Name: "everything", URL: news.URL}},
	}}

	a, err := New(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	stats, err := a.RunOnce(context.Background(), "2024-03-10")
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if stats.TotalArticles != 2 || stats.RelevantCount != 1 || stats.InsightCount != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	// one classification, one extraction, one summary
	if got := atomic.LoadInt32(&completions); got != 3 {
		t.Fatalf("expected 3 completions, got %d", got)
	}

	bundle, err := a.Store().Load(context.Background(), "2024-03-10")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bundle.Insights) != 1 || bundle.Insights[0].URL != "https://e/a" {
		t.Fatalf("unexpected bundle: %+v", bundle)
	}

	last, ok, err := a.Store().LastRun(context.Background())
	if err != nil || !ok || last != "2024-03-10" {
		t.Fatalf("marker not updated: %q %v %v", last, ok, err)
	}

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest("GET", "/news/insights/2024-03-10", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"relevant_articles_count":1`) {
		t.Fatalf("insights endpoint: %d %s", w.Code, w.Body.String())
	}
}

func TestRunOnceUpstreamFailureStillPersistsEmptyBundle(t *testing.T) {
	t.Parallel()

	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":"error","code":"rateLimited"}`))
	}))
	defer news.Close()

	var completions int32
	openai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&completions, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c","object":"chat.completion","created":1,"model":"gpt-4o-mini",
		  "choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":""}}]}`))
	}))
	defer openai.Close()

	cfg := testConfig(t)
	cfg.LLM.APIKey = "llm-key"
	cfg.LLM.BaseURL = openai.URL + "/v1/"
	cfg.Providers.NewsAPIKey = "news-key"
	cfg.Sites = []config.SiteConfig{{
		Name:       "newsapi",
		Scanner:    "newsapi",
		Categories: []config.CategoryConfig{{Name: "everything", URL: news.URL}},
	}}

	a, err := New(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	stats, err := a.RunOnce(context.Background(), "2024-03-10")
	if err != nil {
		t.Fatalf("upstream status must not fail the run: %v", err)
	}
	if stats.TotalArticles != 0 || stats.RelevantCount != 0 || stats.InsightCount != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	// only the summary call
	if got := atomic.LoadInt32(&completions); got != 1 {
		t.Fatalf("expected 1 completion, got %d", got)
	}

	bundle, err := a.Store().Load(context.Background(), "2024-03-10")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if bundle.TotalArticles != 0 || len(bundle.Insights) != 0 {
		t.Fatalf("unexpected bundle: %+v", bundle)
	}
	if len(bundle.TLDR) != 1 || bundle.TLDR[0] != "" {
		t.Fatalf("expected tldr [\"\"], got %#v", bundle.TLDR)
	}

	last, ok, err := a.Store().LastRun(context.Background())
	if err != nil || !ok || last != "2024-03-10" {
		t.Fatalf("marker not updated: %q %v %v", last, ok, err)
	}
}
