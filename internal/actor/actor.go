package actor

import (
	"context"

	"proclog/internal/domain"
)

// Actor is the authenticated identity every service call receives
// explicitly. A nil *Actor means "no actor": unauthenticated, denied
// everything by policy.
type Actor struct {
	ID   domain.ActorID
	Role domain.Role
}

type ctxKey struct{}

func NewContext(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the resolved actor, or nil when resolution failed or
// never ran.
func FromContext(ctx context.Context) *Actor {
	a, _ := ctx.Value(ctxKey{}).(*Actor)
	return a
}
