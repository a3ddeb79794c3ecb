package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLocker implements Locker with SET NX and an expiry. Leases are never
// released early; they lapse after ttl so one pass runs per interval
// across all instances.
type RedisLocker struct {
	client redis.Cmdable
	owner  string
}

// NewRedisLocker returns a locker on client.
func NewRedisLocker(client redis.Cmdable) *RedisLocker {
	return &RedisLocker{client: client, owner: uuid.NewString()}
}

// TryLock acquires key for ttl if nobody holds it.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, l.owner, ttl).Result()
	if err != nil {
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	return ok, nil
}
