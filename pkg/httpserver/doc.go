// Package httpserver runs an http.Server bound to a context.
//
// Run blocks until the context is cancelled (the caller owns signal
// handling, typically via signal.NotifyContext) and then shuts the server
// down within the configured deadline. HealthCheckHandler serves liveness and
// readiness probes built from dependency check functions such as
// pg.Healthcheck and redis.Healthcheck.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	err := srv.Run(ctx, router)
package httpserver
