package auth

import (
	"context"
)

// DefaultActor is recorded when a change has no authenticated user.
const DefaultActor = "system"

type actorKey struct{}

func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, actorKey{}, username)
}

// ContextActor resolves the acting user from the request context.
type ContextActor struct{}

func (ContextActor) Actor(ctx context.Context) string {
	if u, ok := ctx.Value(actorKey{}).(string); ok && u != "" {
		return u
	}
	return DefaultActor
}
