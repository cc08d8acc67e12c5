package userstore

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FetchActor implements actor.Fetcher so the token's role can be refreshed
// from the users collection on each request. A missing user yields (nil, nil).
func (s *Store) FetchActor(ctx context.Context, id primitive.ObjectID) (*actor.Actor, error) {
	ctx, cancel := timeouts.WithShort(ctx)
	defer cancel()

	u, err := s.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toActor(u), nil
}

func toActor(u models.User) *actor.Actor {
	role := strings.ToLower(strings.TrimSpace(u.Role))
	if role == "" {
		role = models.RoleUser
	}
	return &actor.Actor{ID: u.ID, Role: role}
}
