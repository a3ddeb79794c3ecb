package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessiondb/pkg/session"
)

// fakeClock is a settable clock for MemoryStore.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func int64p(v int64) *int64 { return &v }

var testPolicy = session.Policy{Idle: 1800 * time.Second, MaxLifetime: 86400 * time.Second}

func TestMemoryStore_ReadAfterWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	require.NoError(t, store.Write(ctx, "abc", []byte("payload"), nil))

	rec, err := store.Read(ctx, "abc", testPolicy)
	require.NoError(t, err)
	assert.Equal(t, "abc", rec.ID)
	assert.Equal(t, []byte("payload"), rec.Data)
	assert.Nil(t, rec.Owner)
	assert.False(t, rec.UpdatedAt.Before(rec.CreatedAt))

	t.Run("returned data is a copy", func(t *testing.T) {
		rec.Data[0] = 'X'
		again, err := store.Read(ctx, "abc", testPolicy)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), again.Data)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := store.Read(ctx, "nope", testPolicy)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
		assert.NotErrorIs(t, err, session.ErrSessionExpired)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := store.Read(ctx, "", testPolicy)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
		assert.ErrorIs(t, store.Write(ctx, "", nil, nil), session.ErrInvalidSession)
	})
}

func TestMemoryStore_Write(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store := session.NewMemoryStore(session.WithClock(clock.Now))
	t0 := clock.Now()

	require.NoError(t, store.Write(ctx, "s1", []byte("a"), int64p(7)))
	rec, err := store.Read(ctx, "s1", testPolicy)
	require.NoError(t, err)
	assert.Nil(t, rec.Owner, "insert stores no owner")
	assert.Equal(t, t0, rec.CreatedAt)

	clock.Set(t0.Add(time.Minute))
	require.NoError(t, store.Write(ctx, "s1", []byte("b"), int64p(7)))
	rec, err = store.Read(ctx, "s1", testPolicy)
	require.NoError(t, err)
	require.NotNil(t, rec.Owner)
	assert.Equal(t, int64(7), *rec.Owner)
	assert.Equal(t, []byte("b"), rec.Data)
	assert.Equal(t, t0, rec.CreatedAt, "created is immutable")
	assert.Equal(t, t0.Add(time.Minute), rec.UpdatedAt)

	clock.Set(t0.Add(2 * time.Minute))
	require.NoError(t, store.Write(ctx, "s1", []byte("c"), nil))
	rec, err = store.Read(ctx, "s1", testPolicy)
	require.NoError(t, err)
	require.NotNil(t, rec.Owner, "nil owner keeps the existing one")
	assert.Equal(t, int64(7), *rec.Owner)
}

func TestMemoryStore_ExpirationScenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store := session.NewMemoryStore(session.WithClock(clock.Now))
	t0 := clock.Now()

	require.NoError(t, store.Write(ctx, "abc", []byte("orig"), nil))

	clock.Set(t0.Add(1700 * time.Second))
	rec, err := store.Read(ctx, "abc", testPolicy)
	require.NoError(t, err)
	assert.Equal(t, []byte("orig"), rec.Data)

	// Reading does not refresh the idle clock; only writes do.
	clock.Set(t0.Add(1801 * time.Second))
	_, err = store.Read(ctx, "abc", testPolicy)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.ErrorIs(t, err, session.ErrSessionExpired)
	assert.Equal(t, 0, store.Len(), "expired row is deleted by the read")

	clock.Set(t0.Add(1802 * time.Second))
	require.NoError(t, store.Write(ctx, "abc", []byte("x"), nil))
	rec, err = store.Read(ctx, "abc", testPolicy)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), rec.Data)
	assert.Equal(t, t0.Add(1802*time.Second), rec.CreatedAt)
}

func TestMemoryStore_MaxLifetime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store := session.NewMemoryStore(session.WithClock(clock.Now))
	t0 := clock.Now()

	require.NoError(t, store.Write(ctx, "busy", []byte("1"), nil))
	for i := 1; i <= 60; i++ {
		clock.Set(t0.Add(time.Duration(i) * 1700 * time.Second))
		if i*1700 > 86400 {
			break
		}
		require.NoError(t, store.Write(ctx, "busy", []byte("1"), nil))
	}

	_, err := store.Read(ctx, "busy", testPolicy)
	assert.ErrorIs(t, err, session.ErrSessionExpired, "active sessions still end at max lifetime")
}

func TestMemoryStore_ExpiryClosesAccessLog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store := session.NewMemoryStore(session.WithClock(clock.Now))
	t0 := clock.Now()

	store.OpenAccessLog(5)
	require.NoError(t, store.Write(ctx, "abc", []byte("{}"), nil))
	require.NoError(t, store.Write(ctx, "abc", []byte("{}"), int64p(5)))

	clock.Set(t0.Add(time.Hour))
	_, err := store.Read(ctx, "abc", testPolicy)
	require.ErrorIs(t, err, session.ErrSessionExpired)

	closedAt, ok := store.AccessLogClosedAt(5)
	require.True(t, ok)
	assert.Equal(t, t0.Add(time.Hour), closedAt)
}

func TestMemoryStore_Destroy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("explicit access log id", func(t *testing.T) {
		store := session.NewMemoryStore()
		store.OpenAccessLog(42)
		require.NoError(t, store.Write(ctx, "abc", []byte("x"), nil))

		require.NoError(t, store.Destroy(ctx, "abc", int64p(42)))

		_, ok := store.AccessLogClosedAt(42)
		assert.True(t, ok)
		_, err := store.Read(ctx, "abc", testPolicy)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("owner lookup", func(t *testing.T) {
		store := session.NewMemoryStore()
		store.OpenAccessLog(9)
		store.OpenAccessLog(10)
		require.NoError(t, store.Write(ctx, "abc", []byte("x"), nil))
		require.NoError(t, store.Write(ctx, "abc", []byte("x"), int64p(9)))

		require.NoError(t, store.Destroy(ctx, "abc", nil))

		_, ok := store.AccessLogClosedAt(9)
		assert.True(t, ok)
		_, ok = store.AccessLogClosedAt(10)
		assert.False(t, ok)
	})

	t.Run("absent id is not an error", func(t *testing.T) {
		store := session.NewMemoryStore()
		assert.NoError(t, store.Destroy(ctx, "ghost", nil))
		assert.NoError(t, store.Destroy(ctx, "ghost", nil))
	})

	t.Run("closed entry keeps first end time", func(t *testing.T) {
		clock := newFakeClock()
		store := session.NewMemoryStore(session.WithClock(clock.Now))
		store.OpenAccessLog(1)
		require.NoError(t, store.Destroy(ctx, "a", int64p(1)))
		first, _ := store.AccessLogClosedAt(1)

		clock.Set(clock.Now().Add(time.Hour))
		require.NoError(t, store.Destroy(ctx, "a", int64p(1)))
		again, _ := store.AccessLogClosedAt(1)
		assert.Equal(t, first, again)
	})
}

func TestMemoryStore_ConcurrentFirstWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.Write(ctx, "new1", fmt.Appendf(nil, "writer-%d", i), nil)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, store.Len())

	rec, err := store.Read(ctx, "new1", testPolicy)
	require.NoError(t, err)
	assert.Contains(t, []string{"writer-0", "writer-1"}, string(rec.Data))
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store := session.NewMemoryStore(session.WithClock(clock.Now))
	t0 := clock.Now()

	store.OpenAccessLog(1)
	store.OpenAccessLog(2)
	require.NoError(t, store.Write(ctx, "old", []byte("x"), nil))
	require.NoError(t, store.Write(ctx, "old", []byte("x"), int64p(1)))
	require.NoError(t, store.Write(ctx, "anon", []byte("x"), nil))

	clock.Set(t0.Add(time.Hour))
	require.NoError(t, store.Write(ctx, "fresh", []byte("x"), nil))
	require.NoError(t, store.Write(ctx, "fresh", []byte("x"), int64p(2)))

	sweep, err := store.DeleteExpired(ctx, testPolicy)
	require.NoError(t, err)
	assert.Equal(t, session.Sweep{Deleted: 2, Closed: 1}, sweep)
	assert.Equal(t, 1, store.Len())

	_, ok := store.AccessLogClosedAt(1)
	assert.True(t, ok)
	_, ok = store.AccessLogClosedAt(2)
	assert.False(t, ok)

	again, err := store.DeleteExpired(ctx, testPolicy)
	require.NoError(t, err)
	assert.Equal(t, session.Sweep{}, again, "second pass has no effect")
}
