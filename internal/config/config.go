package config

import (
	"log"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "CROP_INSIGHTS_CONFIG"
	xdgConfigFile   = "cropinsights/config.yaml"

	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Providers     ProviderConfig     `yaml:"providers"`
	LLM           LLMConfig          `yaml:"llm"`
	Analysis      AnalysisConfig     `yaml:"analysis"`
	Storage       StorageConfig      `yaml:"storage"`
	Notifications NotificationConfig `yaml:"notifications"`
	ML            MLConfig           `yaml:"ml"`
	Yield         YieldConfig        `yaml:"yield"`
	Sites         []SiteConfig       `yaml:"sites"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// LoggingConfig selects slog level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchedulerConfig defines when the pipeline should run.
type SchedulerConfig struct {
	Enabled        bool           `yaml:"enabled"`
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// ProviderConfig groups credentials for article sources.
type ProviderConfig struct {
	NewsAPIKey string `yaml:"newsApiKey"`
}

// LLMConfig defines how to contact the text-generation service.
type LLMConfig struct {
	Provider   string        `yaml:"provider"`
	BaseURL    string        `yaml:"baseUrl"`
	Model      string        `yaml:"model"`
	APIKey     string        `yaml:"apiKey"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"maxRetries"`
	MaxTokens  int64         `yaml:"maxTokens"`
}

// AnalysisConfig describes the business the prompts are written for.
type AnalysisConfig struct {
	Commodity   string `yaml:"commodity"`
	Company     string `yaml:"company"`
	Country     string `yaml:"country"`
	Markets     string `yaml:"markets"`
	InsightWord int    `yaml:"insightWords"`
}

// StorageConfig selects the insight store backend.
type StorageConfig struct {
	Driver     string `yaml:"driver"`
	Dir        string `yaml:"dir"`
	MarkerPath string `yaml:"markerPath"`
	DSN        string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// MLConfig describes the yield inference service.
type MLConfig struct {
	InferenceURL string        `yaml:"inferenceUrl"`
	APIKey       string        `yaml:"apiKey"`
	Timeout      time.Duration `yaml:"timeout"`
}

// YieldConfig points at the district datasets.
type YieldConfig struct {
	HistoricalCSV    string `yaml:"historicalCsv"`
	DistrictsGeoJSON string `yaml:"districtsGeojson"`
	GridGeoJSON      string `yaml:"gridGeojson"`
}

// SiteConfig describes a single news site with its scanner strategy.
type SiteConfig struct {
	Name       string            `yaml:"name"`
	Scanner    string            `yaml:"scanner"`
	Categories []CategoryConfig  `yaml:"categories"`
	Options    map[string]string `yaml:"options"`
}

// CategoryConfig holds concrete endpoints to scan (API endpoints or feed URLs).
type CategoryConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type envOverrides struct {
	NewsAPIKey     string `envconfig:"NEWSAPI_KEY"`
	LLMProvider    string `envconfig:"LLM_PROVIDER"`
	LLMAPIKey      string `envconfig:"LLM_API_KEY"`
	LLMModel       string `envconfig:"LLM_MODEL"`
	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	AnthropicKey   string `envconfig:"ANTHROPIC_API_KEY"`
	DatabaseDSN    string `envconfig:"DATABASE_DSN"`
	TelegramToken  string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID string `envconfig:"TELEGRAM_CHAT_ID"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	HTTPAddr       string `envconfig:"HTTP_ADDR"`
	InsightsDir    string `envconfig:"INSIGHTS_DIR"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An empty path falls back to $CROP_INSIGHTS_CONFIG and then the XDG config dir.
func Load(path string) Config {
	cfg := defaultConfig()

	if path = resolvePath(path); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sites) == 0 {
		cfg.Sites = defaultConfig().Sites
	}

	return cfg
}

func resolvePath(path string) string {
	if path != "" {
		return path
	}
	if v := os.Getenv(configPathEnv); v != "" {
		return v
	}
	if found, err := xdg.SearchConfigFile(xdgConfigFile); err == nil {
		return found
	}
	return ""
}

func (c *Config) applyEnvOverrides() {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		log.Printf("config: cannot read environment: %v", err)
		return
	}

	if env.NewsAPIKey != "" {
		c.Providers.NewsAPIKey = env.NewsAPIKey
	}
	if env.LLMProvider != "" {
		c.LLM.Provider = env.LLMProvider
	}
	if env.LLMModel != "" {
		c.LLM.Model = env.LLMModel
	}

	switch {
	case env.LLMAPIKey != "":
		c.LLM.APIKey = env.LLMAPIKey
	case c.LLM.Provider == ProviderAnthropic && env.AnthropicKey != "":
		c.LLM.APIKey = env.AnthropicKey
	case c.LLM.Provider == ProviderOpenAI && env.OpenAIAPIKey != "":
		c.LLM.APIKey = env.OpenAIAPIKey
	}

	if env.DatabaseDSN != "" {
		c.Storage.DSN = env.DatabaseDSN
	}
	if env.TelegramToken != "" {
		c.Notifications.Telegram.BotToken = env.TelegramToken
	}
	if env.TelegramChatID != "" {
		c.Notifications.Telegram.ChatID = env.TelegramChatID
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.HTTPAddr != "" {
		c.Server.Addr = env.HTTPAddr
	}
	if env.InsightsDir != "" {
		c.Storage.Dir = env.InsightsDir
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if len(override.Server.AllowedOrigins) > 0 {
		base.Server.AllowedOrigins = override.Server.AllowedOrigins
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Providers.NewsAPIKey != "" {
		base.Providers.NewsAPIKey = override.Providers.NewsAPIKey
	}

	if override.LLM.Provider != "" {
		base.LLM.Provider = override.LLM.Provider
	}
	if override.LLM.BaseURL != "" {
		base.LLM.BaseURL = override.LLM.BaseURL
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.Timeout > 0 {
		base.LLM.Timeout = override.LLM.Timeout
	}
	if override.LLM.MaxRetries > 0 {
		base.LLM.MaxRetries = override.LLM.MaxRetries
	}
	if override.LLM.MaxTokens > 0 {
		base.LLM.MaxTokens = override.LLM.MaxTokens
	}

	if override.Analysis.Commodity != "" {
		base.Analysis.Commodity = override.Analysis.Commodity
	}
	if override.Analysis.Company != "" {
		base.Analysis.Company = override.Analysis.Company
	}
	if override.Analysis.Country != "" {
		base.Analysis.Country = override.Analysis.Country
	}
	if override.Analysis.Markets != "" {
		base.Analysis.Markets = override.Analysis.Markets
	}
	if override.Analysis.InsightWord > 0 {
		base.Analysis.InsightWord = override.Analysis.InsightWord
	}

	if override.Storage.Driver != "" {
		base.Storage.Driver = override.Storage.Driver
	}
	if override.Storage.Dir != "" {
		base.Storage.Dir = override.Storage.Dir
	}
	if override.Storage.MarkerPath != "" {
		base.Storage.MarkerPath = override.Storage.MarkerPath
	}
	if override.Storage.DSN != "" {
		base.Storage.DSN = override.Storage.DSN
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.ML.InferenceURL != "" {
		base.ML.InferenceURL = override.ML.InferenceURL
	}
	if override.ML.APIKey != "" {
		base.ML.APIKey = override.ML.APIKey
	}
	if override.ML.Timeout > 0 {
		base.ML.Timeout = override.ML.Timeout
	}

	if override.Yield.HistoricalCSV != "" {
		base.Yield.HistoricalCSV = override.Yield.HistoricalCSV
	}
	if override.Yield.DistrictsGeoJSON != "" {
		base.Yield.DistrictsGeoJSON = override.Yield.DistrictsGeoJSON
	}
	if override.Yield.GridGeoJSON != "" {
		base.Yield.GridGeoJSON = override.Yield.GridGeoJSON
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Server: ServerConfig{
			Addr:           ":5000",
			AllowedOrigins: []string{"http://localhost:8501"},
		},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		LLM: LLMConfig{
			Provider:   ProviderOpenAI,
			BaseURL:    "https://api.openai.com/v1/",
			Model:      "gpt-4o-mini",
			Timeout:    30 * time.Second,
			MaxRetries: 0,
			MaxTokens:  1024,
		},
		Analysis: AnalysisConfig{
			Commodity:   "rice",
			Company:     "Rashid Rice Mills",
			Country:     "Pakistan",
			Markets:     "UAE and Saudi Arabia",
			InsightWord: 200,
		},
		Storage: StorageConfig{
			Driver:     StorageDriverFile,
			Dir:        "assets/news_insights",
			MarkerPath: "assets/last_execution.json",
		},
		ML: MLConfig{InferenceURL: "http://localhost:8500", Timeout: 15 * time.Second},
		Yield: YieldConfig{
			HistoricalCSV:    "assets/actual_crop_data_with_simulated_weather_data.csv",
			DistrictsGeoJSON: "assets/five_punjab_districts.geojson",
			GridGeoJSON:      "assets/simulate_rice_grid_1000x1000.geojson",
		},
		Sites: []SiteConfig{
			{
				Name:    "newsapi",
				Scanner: "newsapi",
				Categories: []CategoryConfig{
					{Name: "everything", URL: "https://newsapi.org/v2/everything"},
				},
			},
		},
	}
}
