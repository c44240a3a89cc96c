package openai

import (
	"fmt"

	"sahara/internal/config"
	"sahara/internal/port"
	"sahara/internal/provider"
)

func init() {
	provider.RegisterProvider("openai", func(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai: api key is required")
		}
		return NewProvider(cfg), nil
	})
	provider.RegisterProvider("groq", func(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("groq: api key is required")
		}
		return NewGroqProvider(cfg), nil
	})
}
