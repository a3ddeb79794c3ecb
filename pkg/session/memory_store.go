package session

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory. It keeps its own
// access-log table so tests and single-node deployments see the same
// closing behaviour as the Postgres store.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  map[string]*Record
	accessLog map[int64]time.Time // entry id -> closed at; zero while open
	now       func() time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithClock replaces time.Now as the store's clock.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	m := &MemoryStore{
		sessions:  make(map[string]*Record),
		accessLog: make(map[int64]time.Time),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Read returns the row for id, destroying it first if p considers it expired.
func (m *MemoryStore) Read(ctx context.Context, id string, p Policy) (Record, error) {
	if id == "" {
		return Record{}, ErrSessionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[id]
	if !ok {
		return Record{}, ErrSessionNotFound
	}

	now := m.now()
	if p.Expired(now.Sub(rec.CreatedAt), now.Sub(rec.UpdatedAt)) {
		m.closeLocked(rec.Owner, now)
		delete(m.sessions, id)
		return Record{}, errExpired
	}

	return copyRecord(rec), nil
}

// Write inserts or updates the row for id.
func (m *MemoryStore) Write(ctx context.Context, id string, data []byte, owner *int64) error {
	if id == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	rec, ok := m.sessions[id]
	if !ok {
		m.sessions[id] = &Record{
			ID:        id,
			Data:      bytes.Clone(data),
			CreatedAt: now,
			UpdatedAt: now,
		}
		return nil
	}

	rec.Data = bytes.Clone(data)
	if owner != nil {
		o := *owner
		rec.Owner = &o
	}
	rec.UpdatedAt = now
	return nil
}

// Destroy closes the access-log entry and removes the row.
func (m *MemoryStore) Destroy(ctx context.Context, id string, accessLogID *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	rec, ok := m.sessions[id]
	switch {
	case accessLogID != nil:
		m.closeLocked(accessLogID, now)
	case ok:
		m.closeLocked(rec.Owner, now)
	}
	delete(m.sessions, id)
	return nil
}

// DeleteExpired removes every row violating p.
func (m *MemoryStore) DeleteExpired(ctx context.Context, p Policy) (Sweep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sweep Sweep
	now := m.now()
	for id, rec := range m.sessions {
		if !p.Expired(now.Sub(rec.CreatedAt), now.Sub(rec.UpdatedAt)) {
			continue
		}
		if m.closeLocked(rec.Owner, now) {
			sweep.Closed++
		}
		delete(m.sessions, id)
		sweep.Deleted++
	}
	return sweep, nil
}

// OpenAccessLog registers an open access-log entry.
func (m *MemoryStore) OpenAccessLog(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessLog[id] = time.Time{}
}

// AccessLogClosedAt reports when entry id was closed.
// The boolean is false for unknown or still open entries.
func (m *MemoryStore) AccessLogClosedAt(id int64) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	closedAt, ok := m.accessLog[id]
	return closedAt, ok && !closedAt.IsZero()
}

// Len returns the number of stored rows, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// closeLocked sets the end time of an open entry. Unknown and already
// closed entries are left alone.
func (m *MemoryStore) closeLocked(id *int64, now time.Time) bool {
	if id == nil {
		return false
	}
	closedAt, ok := m.accessLog[*id]
	if !ok || !closedAt.IsZero() {
		return false
	}
	m.accessLog[*id] = now
	return true
}

func copyRecord(rec *Record) Record {
	out := *rec
	out.Data = bytes.Clone(rec.Data)
	if rec.Owner != nil {
		o := *rec.Owner
		out.Owner = &o
	}
	return out
}
