package provider

import (
	"fmt"
	"sort"
	"sync"

	"sahara/internal/config"
	"sahara/internal/port"
)

// ProviderFactory creates a CompletionProvider from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.CompletionProvider, error)

// registry of provider factories, populated at startup via RegisterProvider.
var (
	mu        sync.RWMutex
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// NewProvider creates a CompletionProvider from a provider config using the registered factory.
func NewProvider(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown AI provider: %s (registered: %v)", cfg.Provider, Registered())
	}
	return factory(cfg)
}

// Registered returns the sorted names of all registered providers.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for n := range providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
