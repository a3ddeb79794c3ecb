package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store on the sessions and user_access_log tables.
// Timestamps and expiration are evaluated with the database clock.
type PostgresStore struct {
	db DB
}

// NewPostgresStore returns a store backed by db.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const readSessionQuery = `
SELECT session_data, session_user, session_created, session_updated, now()
FROM sessions
WHERE session_id = $1`

// The predicate is re-evaluated inside the DELETE so a concurrent write
// that refreshed the row between SELECT and DELETE keeps it alive.
const expireSessionQuery = `
WITH expired AS (
	DELETE FROM sessions
	WHERE session_id = $1
	  AND (session_updated < now() - $2::bigint * interval '1 second'
	    OR session_created < now() - $3::bigint * interval '1 second')
	RETURNING session_user
)
UPDATE user_access_log
SET date_time_out = now()
WHERE user_access_log_id IN (SELECT session_user FROM expired)
  AND date_time_out IS NULL`

const writeSessionQuery = `
INSERT INTO sessions (session_id, session_data, session_created, session_updated)
VALUES ($1, $2, now(), now())
ON CONFLICT (session_id) DO UPDATE
SET session_data    = EXCLUDED.session_data,
    session_user    = COALESCE($3::bigint, sessions.session_user),
    session_updated = now()`

const destroySessionQuery = `
WITH destroyed AS (
	DELETE FROM sessions
	WHERE session_id = $1
	RETURNING session_user
)
UPDATE user_access_log
SET date_time_out = now()
WHERE user_access_log_id = COALESCE($2::bigint, (SELECT session_user FROM destroyed))
  AND date_time_out IS NULL`

const collectSessionsQuery = `
WITH expired AS (
	DELETE FROM sessions
	WHERE session_updated < now() - $1::bigint * interval '1 second'
	   OR session_created < now() - $2::bigint * interval '1 second'
	RETURNING session_user
), closed AS (
	UPDATE user_access_log
	SET date_time_out = now()
	WHERE user_access_log_id IN (SELECT session_user FROM expired WHERE session_user IS NOT NULL)
	  AND date_time_out IS NULL
	RETURNING user_access_log_id
)
SELECT (SELECT count(*) FROM expired), (SELECT count(*) FROM closed)`

// Read returns the live row for id.
func (s *PostgresStore) Read(ctx context.Context, id string, p Policy) (Record, error) {
	if id == "" {
		return Record{}, ErrSessionNotFound
	}

	rec := Record{ID: id}
	var now time.Time
	err := s.db.QueryRow(ctx, readSessionQuery, id).
		Scan(&rec.Data, &rec.Owner, &rec.CreatedAt, &rec.UpdatedAt, &now)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrSessionNotFound
	}
	if err != nil {
		return Record{}, storeError(err)
	}

	if !p.Expired(now.Sub(rec.CreatedAt), now.Sub(rec.UpdatedAt)) {
		return rec, nil
	}

	if _, err := s.db.Exec(ctx, expireSessionQuery, id, seconds(p.Idle), seconds(p.MaxLifetime)); err != nil {
		return Record{}, storeError(err)
	}
	return Record{}, errExpired
}

// Write upserts the row for id.
func (s *PostgresStore) Write(ctx context.Context, id string, data []byte, owner *int64) error {
	if id == "" {
		return ErrInvalidSession
	}
	if data == nil {
		data = []byte{}
	}
	if _, err := s.db.Exec(ctx, writeSessionQuery, id, data, owner); err != nil {
		return storeError(err)
	}
	return nil
}

// Destroy removes the row for id and closes its access-log entry in one statement.
func (s *PostgresStore) Destroy(ctx context.Context, id string, accessLogID *int64) error {
	if _, err := s.db.Exec(ctx, destroySessionQuery, id, accessLogID); err != nil {
		return storeError(err)
	}
	return nil
}

// DeleteExpired removes expired rows and closes their access-log entries in one statement.
func (s *PostgresStore) DeleteExpired(ctx context.Context, p Policy) (Sweep, error) {
	var sweep Sweep
	err := s.db.QueryRow(ctx, collectSessionsQuery, seconds(p.Idle), seconds(p.MaxLifetime)).
		Scan(&sweep.Deleted, &sweep.Closed)
	if err != nil {
		return Sweep{}, storeError(err)
	}
	return sweep, nil
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
