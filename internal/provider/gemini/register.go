package gemini

import (
	"fmt"

	"sahara/internal/config"
	"sahara/internal/port"
	"sahara/internal/provider"
)

func init() {
	provider.RegisterProvider("gemini", func(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini: api key is required")
		}
		return NewProvider(cfg), nil
	})
}
