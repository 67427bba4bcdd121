package workload

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/localstt/logger"
)

// ManagerFactory creates a Manager from core config and runtime-specific config.
type ManagerFactory func(cfg Config, providerCfg any, log *logger.Logger) (Manager, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]ManagerFactory)
)

// RegisterFactory registers a runtime factory. Runtime packages call it from init.
func RegisterFactory(name string, f ManagerFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// Providers lists the registered runtime names.
func Providers() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a Manager for the configured runtime.
func New(cfg Config, providerCfg any, log *logger.Logger) (Manager, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("workload: unsupported provider %q (registered: %v)", cfg.Provider, Providers())
	}

	l := log.WithComponent("workload")
	l.Debug("initializing workload manager", logger.Fields("provider", cfg.Provider))
	return f(cfg, providerCfg, l)
}
