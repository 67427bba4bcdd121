package logger

import (
	"sync"
)

// registry holds loggers handed to plugins and components by name.
var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Get retrieves a named logger. Unregistered names get the global logger
// tagged with the requested component name, which is then cached.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if l, ok = registry.loggers[name]; ok {
		return l
	}
	l = GetGlobalLogger().WithComponent(name)
	registry.loggers[name] = l
	return l
}

// Reset drops every registered logger.
func Reset() {
	registry.mu.Lock()
	registry.loggers = make(map[string]*Logger)
	registry.mu.Unlock()
}
