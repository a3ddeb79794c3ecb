package session

import (
	"context"

	"github.com/google/uuid"
)

// Actor is the identity on whose behalf background work runs.
type Actor struct {
	ID     uuid.UUID
	Name   string
	System bool
}

// SystemActor returns a minimal privileged actor for maintenance jobs.
func SystemActor() Actor {
	return Actor{
		ID:     uuid.New(),
		Name:   "system",
		System: true,
	}
}

type actorContextKey struct{}

// WithActor attaches an actor to the context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, a)
}

// ActorFromContext returns the actor attached to ctx.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorContextKey{}).(Actor)
	return a, ok
}
