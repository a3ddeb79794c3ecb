package session

import (
	"log/slog"

	"github.com/dmitrymomot/sessiondb/pkg/cookie"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithStore sets the session store. Defaults to a MemoryStore.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithSettings sets the named-setting source for thresholds, handling mode and base URL.
func WithSettings(s Settings) Option {
	return func(m *Manager) {
		m.settings = s
	}
}

// WithCollector sets the collector used by Maintain.
func WithCollector(c *Collector) Option {
	return func(m *Manager) {
		m.collector = c
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithCookieName sets the session cookie name
func WithCookieName(name string) Option {
	return func(m *Manager) {
		m.config.CookieName = name
	}
}

// WithCookieManager sets the cookie writer.
func WithCookieManager(c *cookie.Manager) Option {
	return func(m *Manager) {
		m.cookies = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithIDGenerator replaces the random session id generator.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}
