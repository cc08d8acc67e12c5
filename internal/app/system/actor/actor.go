// Package actor resolves the caller of an API operation.
//
// Identity is owned by an external service that issues HS256 bearer tokens
// carrying the user's id and role. This package verifies those tokens,
// optionally refreshes the role from the users collection, and carries the
// resulting Actor through the request context.
package actor

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the resolved identity of a caller. A nil *Actor means anonymous.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

// IsAdmin reports whether the actor has the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && strings.EqualFold(a.Role, models.RoleAdmin)
}

type ctxKey string

const currentActorKey ctxKey = "currentActor"

// WithActor returns a copy of ctx carrying a.
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, currentActorKey, a)
}

// FromContext returns the actor in ctx, or nil for anonymous callers.
func FromContext(ctx context.Context) *Actor {
	a, _ := ctx.Value(currentActorKey).(*Actor)
	return a
}

// Current returns the actor attached to r, or nil.
func Current(r *http.Request) *Actor {
	return FromContext(r.Context())
}
