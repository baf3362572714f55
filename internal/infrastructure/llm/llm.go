package llm

import (
	"errors"
	"fmt"
	"strings"

	"CropInsights/internal/config"
	"CropInsights/internal/ports"
)

// ErrNotConfigured is returned when no API key is available for the provider.
var ErrNotConfigured = errors.New("llm client not configured")

// New picks a completer implementation by provider name.
func New(cfg config.LLMConfig) (ports.Completer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	switch strings.ToLower(cfg.Provider) {
	case "", config.ProviderOpenAI:
		return NewOpenAICompleter(cfg), nil
	case config.ProviderAnthropic:
		return NewAnthropicCompleter(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q (valid: %s, %s)", cfg.Provider, config.ProviderOpenAI, config.ProviderAnthropic)
	}
}
