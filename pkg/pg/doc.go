// Package pg bootstraps PostgreSQL access for the session store using the
// pgx/v5 driver.
//
//   - Config is populated from PG_* environment variables.
//   - Connect opens a *pgxpool.Pool, retrying while the database comes up.
//   - Migrate applies goose migrations, either from a directory or from an
//     embedded filesystem (WithMigrationsFS).
//   - Healthcheck returns a readiness probe.
//   - IsDuplicateKeyError and friends classify *pgconn.PgError values.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log, pg.WithMigrationsFS(migrations.FS)); err != nil {
//		return err
//	}
package pg
