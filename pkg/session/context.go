package session

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/sessiondb/pkg/logger"
)

type sessionContextKey struct{}

// WithSession adds a session to the context
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// FromContext retrieves a session from the context
func FromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*Session)
	return session, ok && session != nil
}

// MustFromContext retrieves a session from the context or panics
func MustFromContext(ctx context.Context) *Session {
	session, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return session
}

// LogExtractor adds the current session id to log records.
// Register it with logger.WithContextExtractors.
func LogExtractor(ctx context.Context) (slog.Attr, bool) {
	s, ok := FromContext(ctx)
	if !ok || s.ID == "" {
		return slog.Attr{}, false
	}
	return logger.SessionID(s.ID), true
}
