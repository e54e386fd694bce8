package recognition

import (
	"fmt"
	"sort"
	"sync"

	"casedesk/internal/config"
	"casedesk/internal/port"
)

// ProviderFactory creates a DocumentRecognizer from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.DocumentRecognizer, error)

var (
	providersMu sync.RWMutex
	// registry of provider factories, populated by init() in each provider package.
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// Providers lists registered provider names.
func Providers() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRecognizer creates a DocumentRecognizer using the registered factory.
func NewRecognizer(cfg *config.ProviderConfig) (port.DocumentRecognizer, error) {
	providersMu.RLock()
	factory, ok := providers[cfg.Provider]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown recognition provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewClientFromConfig builds the primary/fallback client described by cfg.
func NewClientFromConfig(cfg *config.RecognitionConfig, observer Observer) (*Client, error) {
	primary, err := NewRecognizer(&cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("primary recognizer: %w", err)
	}
	var fallback port.DocumentRecognizer
	fallbackName := ""
	if fb := cfg.FallbackConfig(); fb != nil {
		fallback, err = NewRecognizer(fb)
		if err != nil {
			return nil, fmt.Errorf("fallback recognizer: %w", err)
		}
		fallbackName = fb.Model
	}
	return NewClient(ClientOptions{
		Primary:      primary,
		PrimaryName:  cfg.Primary.Model,
		Fallback:     fallback,
		FallbackName: fallbackName,
		Language:     cfg.Language,
		Observer:     observer,
	}), nil
}
