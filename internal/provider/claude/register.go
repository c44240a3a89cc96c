package claude

import (
	"fmt"

	"sahara/internal/config"
	"sahara/internal/port"
	"sahara/internal/provider"
)

func init() {
	provider.RegisterProvider("claude", func(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("claude: api key is required")
		}
		return NewProvider(cfg), nil
	})
}
