package userstore

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemDirectory is an in-memory user directory for tests and
// store_backend=memory. Users are added with Put.
type MemDirectory struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMem() *MemDirectory {
	return &MemDirectory{users: make(map[primitive.ObjectID]models.User)}
}

// Put adds or replaces u.
func (d *MemDirectory) Put(u models.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *MemDirectory) GetByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (d *MemDirectory) LookupRefs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[primitive.ObjectID]models.UserRef, len(ids))
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out[id] = u.Ref()
		}
	}
	return out, nil
}

func (d *MemDirectory) Count(_ context.Context) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return int64(len(d.users)), nil
}

// FetchActor implements actor.Fetcher.
func (d *MemDirectory) FetchActor(ctx context.Context, id primitive.ObjectID) (*actor.Actor, error) {
	u, err := d.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toActor(u), nil
}
