package session

import (
	"context"
	"time"
)

// Record is a persisted session row. Data is opaque to the store.
type Record struct {
	ID        string
	Data      []byte
	Owner     *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sweep reports what one garbage collection pass removed.
type Sweep struct {
	// Deleted is the number of session rows removed.
	Deleted int64
	// Closed is the number of access-log entries that received an end time.
	Closed int64
}

// Store persists session rows.
//
// Implementations evaluate expiration against their own clock, close the
// access-log entry tied to a session in the same logical operation that
// removes the row, and never return a duplicate-key error from Write.
type Store interface {
	// Read returns the live row for id. A missing row yields ErrSessionNotFound.
	// An expired row is destroyed and yields ErrSessionNotFound joined with
	// ErrSessionExpired.
	Read(ctx context.Context, id string, p Policy) (Record, error)

	// Write inserts or updates the row for id. A new row gets no owner;
	// an existing row keeps its owner unless a non-nil one is passed.
	Write(ctx context.Context, id string, data []byte, owner *int64) error

	// Destroy closes the access-log entry (accessLogID, or the row's owner
	// when nil) and removes the row. Destroying an absent id is not an error.
	Destroy(ctx context.Context, id string, accessLogID *int64) error

	// DeleteExpired removes every row violating p and closes their access-log entries.
	DeleteExpired(ctx context.Context, p Policy) (Sweep, error)
}
