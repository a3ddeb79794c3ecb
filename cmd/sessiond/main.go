// Command sessiond serves the session endpoints of a dotProject-style
// application and runs session garbage collection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/sessiondb/migrations"
	"github.com/dmitrymomot/sessiondb/pkg/config"
	"github.com/dmitrymomot/sessiondb/pkg/httpserver"
	"github.com/dmitrymomot/sessiondb/pkg/logger"
	"github.com/dmitrymomot/sessiondb/pkg/pg"
	"github.com/dmitrymomot/sessiondb/pkg/redis"
	"github.com/dmitrymomot/sessiondb/pkg/requestid"
	"github.com/dmitrymomot/sessiondb/pkg/session"
)

type appConfig struct {
	SettingsFile string `env:"SESSION_SETTINGS_FILE"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("sessiond stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg     appConfig
		logCfg     logger.Config
		pgCfg      pg.Config
		redisCfg   redis.Config
		httpCfg    httpserver.Config
		sessionCfg session.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&sessionCfg)

	log, err := logger.NewFromConfig(logCfg,
		logger.WithContextExtractors(requestid.LogExtractor, session.LogExtractor),
	)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	settings, err := loadSettings(appCfg.SettingsFile)
	if err != nil {
		return err
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	pgCfg.MigrationsPath = "."
	if err := pg.Migrate(ctx, pool, pgCfg, log, pg.WithMigrationsFS(migrations.FS)); err != nil {
		return err
	}

	checks := []func(context.Context) error{pg.Healthcheck(pool)}
	store := session.NewPostgresStore(pool)
	collectorOpts := []session.CollectorOption{session.WithCollectorLogger(log)}

	if redisCfg.Enabled() {
		rdb, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		checks = append(checks, redis.Healthcheck(rdb))
		collectorOpts = append(collectorOpts,
			session.WithLocker(session.NewRedisLocker(rdb), session.DefaultLockKey, sessionCfg.GCLockTTL))
	}

	collector := session.NewCollector(store, settings, collectorOpts...)
	manager := session.NewFromConfig(sessionCfg,
		session.WithStore(store),
		session.WithSettings(settings),
		session.WithCollector(collector),
		session.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, checks...))
	r.Post("/maintenance/gc", maintenanceHandler(manager))
	r.Group(func(r chi.Router) {
		r.Use(manager.Middleware)
		r.Get("/session", showHandler())
		r.Post("/login", loginHandler(manager, pool))
		r.Post("/logout", logoutHandler(manager))
	})

	server := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx, r) })
	g.Go(func() error { return collector.Run(gctx, sessionCfg.GCInterval) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loadSettings layers the optional settings file under the environment.
func loadSettings(path string) (config.Getter, error) {
	if path == "" {
		return config.Env(), nil
	}
	values, err := config.LoadValues(path)
	if err != nil {
		return nil, err
	}
	return config.Chain(config.Env(), values), nil
}
