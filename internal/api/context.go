package api

import (
	"context"

	"github.com/alexanderramin/threadlog/internal/domain"
)

type contextKey string

const actorContextKey contextKey = "actor"

// WithActor injects the verified caller into the context.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext returns the caller set by RequireIdentity.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorContextKey).(domain.Actor)
	return a, ok
}
