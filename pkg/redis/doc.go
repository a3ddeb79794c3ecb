// Package redis connects to Redis with go-redis/v9.
//
// The session service uses Redis only for coordination: the garbage
// collector takes a short-lived lock so that a fleet of instances performs
// one sweep per interval. Redis is optional; an empty REDIS_URL disables it.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	if cfg.Enabled() {
//		client, err := redis.Connect(ctx, cfg)
//		...
//	}
package redis
