package toolrunner

import (
	"fmt"
	"sort"
	"sync"

	"docassist/internal/config"
	"docassist/internal/port"
)

// ProviderFactory builds a ToolRunner from a provider config.
type ProviderFactory func(cfg *config.ToolProviderConfig) (port.ToolRunner, error)

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

// RegisteredProviders lists registered provider names in sorted order.
func RegisteredProviders() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRunner creates a ToolRunner for cfg using the registered factory.
func NewRunner(cfg *config.ToolProviderConfig) (port.ToolRunner, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown tool provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewFromConfig builds the primary runner and, when secondary or tertiary
// providers are configured, wraps them all in a FallbackRunner.
func NewFromConfig(cfg *config.ToolsConfig, logger Logger) (port.ToolRunner, error) {
	slots := []*config.ToolProviderConfig{cfg.PrimaryConfig(), cfg.SecondaryConfig(), cfg.TertiaryConfig()}

	var runners []port.ToolRunner
	var names []string
	for _, slot := range slots {
		if slot == nil {
			continue
		}
		r, err := NewRunner(slot)
		if err != nil {
			return nil, err
		}
		runners = append(runners, r)
		names = append(names, slot.Provider)
	}

	if len(runners) == 1 {
		return runners[0], nil
	}
	return NewFallbackRunner(runners, names, logger), nil
}
