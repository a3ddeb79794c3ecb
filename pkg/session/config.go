package session

import "time"

// DefaultCookieName is the session cookie name.
const DefaultCookieName = "dotproject"

// Config holds process-level session settings. Expiration thresholds are
// not here: they come from Settings on every read and GC pass.
type Config struct {
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"dotproject"`

	// GCInterval is the period of Collector.Run.
	GCInterval time.Duration `env:"SESSION_GC_INTERVAL" envDefault:"5m"`

	// GCLockTTL is how long one instance holds the GC lease. Keep it
	// slightly below GCInterval.
	GCLockTTL time.Duration `env:"SESSION_GC_LOCK_TTL" envDefault:"4m"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		CookieName: DefaultCookieName,
		GCInterval: 5 * time.Minute,
		GCLockTTL:  4 * time.Minute,
	}
}

// NewFromConfig creates a Manager from cfg, then applies opts.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}
