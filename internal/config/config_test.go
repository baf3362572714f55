package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	if cfg.Storage.Driver != StorageDriverFile {
		t.Fatalf("expected file driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Dir != "assets/news_insights" {
		t.Fatalf("unexpected store dir: %s", cfg.Storage.Dir)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %s", cfg.LLM.Model)
	}
	if cfg.Analysis.InsightWord != 200 {
		t.Fatalf("unexpected word ceiling: %d", cfg.Analysis.InsightWord)
	}
	if len(cfg.Sites) != 1 || cfg.Sites[0].Scanner != "newsapi" {
		t.Fatalf("unexpected default sites: %+v", cfg.Sites)
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("unexpected location: %s", cfg.Scheduler.Location())
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
scheduler:
  enabled: true
  timezone: Asia/Karachi
llm:
  provider: anthropic
  model: claude-haiku-4-5
  timeout: 5s
storage:
  dir: /var/lib/insights
sites:
  - name: dawn
    scanner: rss
    categories:
      - name: business
        url: https://www.dawn.com/feeds/business
`)

	cfg := Load(path)

	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr not merged: %s", cfg.Server.Addr)
	}
	if !cfg.Scheduler.Enabled {
		t.Fatalf("scheduler should be enabled")
	}
	if cfg.Scheduler.Location().String() != "Asia/Karachi" {
		t.Fatalf("timezone not bound: %s", cfg.Scheduler.Location())
	}
	if cfg.LLM.Provider != ProviderAnthropic || cfg.LLM.Model != "claude-haiku-4-5" {
		t.Fatalf("llm not merged: %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout != 5*time.Second {
		t.Fatalf("timeout not merged: %s", cfg.LLM.Timeout)
	}
	if cfg.LLM.BaseURL == "" {
		t.Fatalf("base url default lost")
	}
	if cfg.Storage.Dir != "/var/lib/insights" || cfg.Storage.MarkerPath != "assets/last_execution.json" {
		t.Fatalf("storage not merged: %+v", cfg.Storage)
	}
	if len(cfg.Sites) != 1 || cfg.Sites[0].Scanner != "rss" {
		t.Fatalf("sites not replaced: %+v", cfg.Sites)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: openai
  apiKey: from-file
storage:
  dir: from-file
`)
	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("INSIGHTS_DIR", "/tmp/insights")
	t.Setenv("NEWSAPI_KEY", "news-key")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg := Load(path)

	if cfg.LLM.APIKey != "from-env" {
		t.Fatalf("expected env api key, got %q", cfg.LLM.APIKey)
	}
	if cfg.Storage.Dir != "/tmp/insights" {
		t.Fatalf("expected env store dir, got %q", cfg.Storage.Dir)
	}
	if cfg.Providers.NewsAPIKey != "news-key" {
		t.Fatalf("expected news key, got %q", cfg.Providers.NewsAPIKey)
	}
	if cfg.Notifications.Telegram.ChatID != "42" {
		t.Fatalf("expected chat id, got %q", cfg.Notifications.Telegram.ChatID)
	}
}

func TestLoadProviderSpecificKey(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: anthropic\n")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")

	cfg := Load(path)
	if cfg.LLM.APIKey != "anthropic-key" {
		t.Fatalf("expected anthropic key, got %q", cfg.LLM.APIKey)
	}
}

func TestUnknownTimezoneFallsBack(t *testing.T) {
	path := writeConfig(t, "scheduler:\n  timezone: Mars/Olympus\n")

	cfg := Load(path)
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("expected UTC fallback, got %s", cfg.Scheduler.Location())
	}
}
