package shared

import (
	"context"

	"github.com/google/uuid"
)

type actorContextKey struct{}

// ContextWithActor stores the resolved actor id in context. The actor is
// produced by the SSO bearer decoding middleware; by the time a request
// reaches a service, authentication has already happened elsewhere.
func ContextWithActor(ctx context.Context, actor uuid.UUID) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor id from context. Returns uuid.Nil when
// no actor was attached.
func ActorFromContext(ctx context.Context) uuid.UUID {
	actor, _ := ctx.Value(actorContextKey{}).(uuid.UUID)
	return actor
}
