package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessiondb/pkg/logger"
)

// QueueScanner performs pending event-queue work.
type QueueScanner interface {
	Scan(ctx context.Context) error
}

// QueueScannerFunc adapts a function to QueueScanner.
type QueueScannerFunc func(ctx context.Context) error

func (f QueueScannerFunc) Scan(ctx context.Context) error { return f(ctx) }

// Locker grants a lease on key for ttl. It reports false when another
// holder owns the lease.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// DefaultLockKey is the lease key used by Collector.Run.
const DefaultLockKey = "session:gc"

// Collector removes expired sessions and closes their access-log entries.
type Collector struct {
	store    Store
	settings Settings
	scanner  QueueScanner
	locker   Locker
	lockKey  string
	lockTTL  time.Duration
	logger   *slog.Logger
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithQueueScanner sets the scanner invoked when session_gc_scan_queue is enabled.
func WithQueueScanner(s QueueScanner) CollectorOption {
	return func(c *Collector) {
		c.scanner = s
	}
}

// WithLocker makes Run skip a pass when another instance holds the lease.
func WithLocker(l Locker, key string, ttl time.Duration) CollectorOption {
	return func(c *Collector) {
		c.locker = l
		if key != "" {
			c.lockKey = key
		}
		c.lockTTL = ttl
	}
}

// WithCollectorLogger sets the logger.
func WithCollectorLogger(l *slog.Logger) CollectorOption {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCollector creates a collector over store. Thresholds are read from
// settings on every pass.
func NewCollector(store Store, settings Settings, opts ...CollectorOption) *Collector {
	c := &Collector{
		store:    store,
		settings: settings,
		lockKey:  DefaultLockKey,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logger.Component("session.gc"))
	return c
}

// Collect runs one pass. Expired rows are deleted and their access-log
// entries closed as a single store operation. Queue scanning, when enabled,
// runs afterwards and its failure is only logged.
func (c *Collector) Collect(ctx context.Context) (Sweep, error) {
	if c.store == nil {
		return Sweep{}, ErrNoStore
	}

	start := time.Now()
	sweep, err := c.store.DeleteExpired(ctx, PolicyFrom(c.settings))
	if err != nil {
		c.logger.ErrorContext(ctx, "garbage collection failed", logger.Error(err))
		return Sweep{}, err
	}

	if sweep.Deleted > 0 || sweep.Closed > 0 {
		c.logger.InfoContext(ctx, "expired sessions collected",
			logger.Count("deleted", sweep.Deleted),
			logger.Count("closed", sweep.Closed),
			logger.Duration(time.Since(start)),
		)
	}

	c.scanQueue(ctx)
	return sweep, nil
}

func (c *Collector) scanQueue(ctx context.Context) {
	if c.scanner == nil || !enabled(c.settings, SettingGCScanQueue) {
		return
	}
	// The queue worker scans on its own when a caller is acting.
	if _, ok := ActorFromContext(ctx); ok {
		return
	}
	ctx = WithActor(ctx, SystemActor())
	if err := c.scanner.Scan(ctx); err != nil {
		c.logger.WarnContext(ctx, "queue scan failed", logger.Error(err))
	}
}

// Run collects immediately and then on every tick until ctx is done.
func (c *Collector) Run(ctx context.Context, interval time.Duration) error {
	if c.store == nil {
		return ErrNoStore
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		c.tick(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (c *Collector) tick(ctx context.Context) {
	if c.locker != nil {
		ttl := c.lockTTL
		if ttl <= 0 {
			ttl = time.Minute
		}
		ok, err := c.locker.TryLock(ctx, c.lockKey, ttl)
		switch {
		case err != nil:
			c.logger.WarnContext(ctx, "gc lock unavailable, collecting anyway", logger.Error(err))
		case !ok:
			c.logger.DebugContext(ctx, "gc pass skipped, lease held elsewhere")
			return
		}
	}
	_, _ = c.Collect(ctx)
}
