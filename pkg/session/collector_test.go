package session_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessiondb/pkg/session"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Read(ctx context.Context, id string, p session.Policy) (session.Record, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(session.Record), args.Error(1)
}

func (m *mockStore) Write(ctx context.Context, id string, data []byte, owner *int64) error {
	return m.Called(ctx, id, data, owner).Error(0)
}

func (m *mockStore) Destroy(ctx context.Context, id string, accessLogID *int64) error {
	return m.Called(ctx, id, accessLogID).Error(0)
}

func (m *mockStore) DeleteExpired(ctx context.Context, p session.Policy) (session.Sweep, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(session.Sweep), args.Error(1)
}

type mockLocker struct {
	mock.Mock
}

func (m *mockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func TestCollector_Collect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("policy is read from settings on every pass", func(t *testing.T) {
		store := new(mockStore)
		settings := session.SettingsMap{"session_idle_time": "30", "session_max_lifetime": "1h"}
		store.On("DeleteExpired", mock.Anything, session.Policy{Idle: 30 * time.Second, MaxLifetime: time.Hour}).
			Return(session.Sweep{Deleted: 2, Closed: 1}, nil).Once()
		store.On("DeleteExpired", mock.Anything, session.Policy{Idle: time.Minute, MaxLifetime: time.Hour}).
			Return(session.Sweep{}, nil).Once()

		gc := session.NewCollector(store, settings)
		sweep, err := gc.Collect(ctx)
		require.NoError(t, err)
		assert.Equal(t, session.Sweep{Deleted: 2, Closed: 1}, sweep)

		settings["session_idle_time"] = "60"
		_, err = gc.Collect(ctx)
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		store := new(mockStore)
		store.On("DeleteExpired", mock.Anything, mock.Anything).Return(session.Sweep{}, session.ErrStoreUnavailable)

		_, err := session.NewCollector(store, nil).Collect(ctx)
		assert.ErrorIs(t, err, session.ErrStoreUnavailable)
	})

	t.Run("no store", func(t *testing.T) {
		_, err := session.NewCollector(nil, nil).Collect(ctx)
		assert.ErrorIs(t, err, session.ErrNoStore)
	})

	t.Run("idempotent on the memory store", func(t *testing.T) {
		clock := newFakeClock()
		store := session.NewMemoryStore(session.WithClock(clock.Now))
		store.OpenAccessLog(1)
		require.NoError(t, store.Write(ctx, "a", []byte("x"), nil))
		require.NoError(t, store.Write(ctx, "a", []byte("x"), int64p(1)))
		clock.Set(clock.Now().Add(48 * time.Hour))

		gc := session.NewCollector(store, nil)
		first, err := gc.Collect(ctx)
		require.NoError(t, err)
		assert.Equal(t, session.Sweep{Deleted: 1, Closed: 1}, first)
		closedAt, _ := store.AccessLogClosedAt(1)

		clock.Set(clock.Now().Add(time.Hour))
		second, err := gc.Collect(ctx)
		require.NoError(t, err)
		assert.Equal(t, session.Sweep{}, second)
		again, _ := store.AccessLogClosedAt(1)
		assert.Equal(t, closedAt, again)
	})
}

func TestCollector_QueueScan(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	t.Run("disabled by default", func(t *testing.T) {
		var calls atomic.Int32
		scanner := session.QueueScannerFunc(func(context.Context) error {
			calls.Add(1)
			return nil
		})
		_, err := session.NewCollector(store, session.SettingsMap{}, session.WithQueueScanner(scanner)).Collect(ctx)
		require.NoError(t, err)
		assert.Zero(t, calls.Load())
	})

	t.Run("system actor is supplied when absent", func(t *testing.T) {
		var got session.Actor
		scanner := session.QueueScannerFunc(func(ctx context.Context) error {
			got, _ = session.ActorFromContext(ctx)
			return nil
		})
		settings := session.SettingsMap{"session_gc_scan_queue": "1"}
		_, err := session.NewCollector(store, settings, session.WithQueueScanner(scanner)).Collect(ctx)
		require.NoError(t, err)
		assert.True(t, got.System)
		assert.NotEmpty(t, got.ID)
	})

	t.Run("no scan when a caller actor is present", func(t *testing.T) {
		caller := session.Actor{Name: "admin"}
		var calls atomic.Int32
		scanner := session.QueueScannerFunc(func(context.Context) error {
			calls.Add(1)
			return nil
		})
		settings := session.SettingsMap{"session_gc_scan_queue": "true"}
		_, err := session.NewCollector(store, settings, session.WithQueueScanner(scanner)).
			Collect(session.WithActor(ctx, caller))
		require.NoError(t, err)
		assert.Zero(t, calls.Load())
	})

	t.Run("scanner failure is not returned", func(t *testing.T) {
		scanner := session.QueueScannerFunc(func(context.Context) error { return errors.New("queue down") })
		settings := session.SettingsMap{"session_gc_scan_queue": "yes"}
		_, err := session.NewCollector(store, settings, session.WithQueueScanner(scanner)).Collect(ctx)
		assert.NoError(t, err)
	})

	t.Run("falsy flag values", func(t *testing.T) {
		for _, v := range []string{"0", "false", "no", "off", "OFF"} {
			var calls atomic.Int32
			scanner := session.QueueScannerFunc(func(context.Context) error {
				calls.Add(1)
				return nil
			})
			settings := session.SettingsMap{"session_gc_scan_queue": v}
			_, err := session.NewCollector(store, settings, session.WithQueueScanner(scanner)).Collect(ctx)
			require.NoError(t, err)
			assert.Zero(t, calls.Load(), v)
		}
	})
}

func TestCollector_Run(t *testing.T) {
	t.Parallel()

	t.Run("collects until cancelled", func(t *testing.T) {
		store := new(mockStore)
		var passes atomic.Int32
		store.On("DeleteExpired", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { passes.Add(1) }).
			Return(session.Sweep{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- session.NewCollector(store, nil).Run(ctx, 10*time.Millisecond) }()

		assert.Eventually(t, func() bool { return passes.Load() >= 3 }, time.Second, 5*time.Millisecond)
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Run did not stop")
		}
	})

	t.Run("skips pass while lease is held elsewhere", func(t *testing.T) {
		store := new(mockStore)
		locker := new(mockLocker)
		var attempts atomic.Int32
		locker.On("TryLock", mock.Anything, "gc-test", time.Minute).
			Run(func(mock.Arguments) { attempts.Add(1) }).
			Return(false, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		gc := session.NewCollector(store, nil, session.WithLocker(locker, "gc-test", time.Minute))
		go func() { _ = gc.Run(ctx, 5*time.Millisecond) }()

		assert.Eventually(t, func() bool { return attempts.Load() >= 2 }, time.Second, 5*time.Millisecond)
		store.AssertNotCalled(t, "DeleteExpired", mock.Anything, mock.Anything)
	})

	t.Run("collects when the locker fails", func(t *testing.T) {
		store := new(mockStore)
		locker := new(mockLocker)
		var passes atomic.Int32
		locker.On("TryLock", mock.Anything, session.DefaultLockKey, time.Minute).Return(false, errors.New("redis down"))
		store.On("DeleteExpired", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { passes.Add(1) }).
			Return(session.Sweep{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		gc := session.NewCollector(store, nil, session.WithLocker(locker, "", 0))
		go func() { _ = gc.Run(ctx, 5*time.Millisecond) }()

		assert.Eventually(t, func() bool { return passes.Load() >= 1 }, time.Second, 5*time.Millisecond)
	})
}
