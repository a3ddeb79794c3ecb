package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound indicates no live session exists for the id.
	// It is the normal outcome for new visitors, not a failure.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired accompanies ErrSessionNotFound when Read destroyed
	// the row because it exceeded the idle timeout or the max lifetime.
	ErrSessionExpired = errors.New("session.expired")

	// ErrStoreUnavailable wraps failures of the backing store.
	ErrStoreUnavailable = errors.New("session.store_unavailable")

	// ErrInvalidSession indicates an empty or malformed session id.
	ErrInvalidSession = errors.New("session.invalid")

	// ErrMalformedBaseURL is reported by ParseBaseURL. Cookie resolution
	// never fails on it and falls back to host-only, path "/", insecure.
	ErrMalformedBaseURL = errors.New("session.malformed_base_url")

	// ErrInvalidDurationConfig is reported by ParseTimeoutStrict. ParseTimeout
	// never fails on it.
	ErrInvalidDurationConfig = errors.New("session.invalid_duration_config")

	// ErrTokenGeneration indicates session id generation failed.
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrNoStore indicates a collector or manager was built without a store.
	ErrNoStore = errors.New("session.no_store")
)

// errExpired is returned by Store.Read after it destroyed an expired row.
var errExpired = fmt.Errorf("%w: %w", ErrSessionNotFound, ErrSessionExpired)

// storeError wraps a driver error so that callers can match ErrStoreUnavailable.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrStoreUnavailable, err)
}
