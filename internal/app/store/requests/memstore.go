// internal/app/store/requests/memstore.go
package requeststore

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore is an in-memory request store with the same semantics as Store.
// It backs tests and store_backend=memory; nothing is persisted.
type MemStore struct {
	mu   sync.RWMutex
	reqs map[primitive.ObjectID]*models.Request
}

func NewMem() *MemStore {
	return &MemStore{reqs: make(map[primitive.ObjectID]*models.Request)}
}

// clone copies r so callers never share the stored volunteer slice.
func clone(r *models.Request) models.Request {
	out := *r
	out.Volunteers = append([]primitive.ObjectID{}, r.Volunteers...)
	return out
}

func (m *MemStore) Create(_ context.Context, requesterID primitive.ObjectID, title, description, location string) (models.Request, error) {
	if err := validateNew(title, description, location); err != nil {
		return models.Request{}, err
	}
	req := newRequest(requesterID, title, description, location)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reqs[req.ID] = &req
	return clone(&req), nil
}

// Insert stores r as given. Tests use it to control created_at.
func (m *MemStore) Insert(_ context.Context, r models.Request) {
	if r.Volunteers == nil {
		r.Volunteers = []primitive.ObjectID{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reqs[r.ID] = &r
}

func (m *MemStore) Get(_ context.Context, id primitive.ObjectID) (models.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reqs[id]
	if !ok {
		return models.Request{}, ErrNotFound
	}
	return clone(r), nil
}

func (m *MemStore) Update(_ context.Context, id primitive.ObjectID, f Fields) (models.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reqs[id]
	if !ok {
		return models.Request{}, ErrNotFound
	}
	if f.Empty() {
		return clone(r), nil
	}
	if f.Title != nil {
		r.Title = strings.TrimSpace(*f.Title)
	}
	if f.Description != nil {
		r.Description = strings.TrimSpace(*f.Description)
	}
	if f.Location != nil {
		r.Location = strings.TrimSpace(*f.Location)
	}
	r.UpdatedAt = now()
	return clone(r), nil
}

func (m *MemStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reqs[id]; !ok {
		return ErrNotFound
	}
	delete(m.reqs, id)
	return nil
}

func (m *MemStore) SetActive(_ context.Context, id primitive.ObjectID, active bool) (models.Request, error) {
	return m.mutate(id, func(r *models.Request) error {
		r.IsActive = active
		return nil
	})
}

func (m *MemStore) ToggleActive(_ context.Context, id primitive.ObjectID) (models.Request, error) {
	return m.mutate(id, func(r *models.Request) error {
		r.IsActive = !r.IsActive
		return nil
	})
}

func (m *MemStore) AddVolunteer(_ context.Context, id, userID primitive.ObjectID) (models.Request, error) {
	return m.mutate(id, func(r *models.Request) error {
		if r.Requester == userID || r.HasVolunteer(userID) {
			return whyNotAdded(*r, userID)
		}
		r.Volunteers = append(r.Volunteers, userID)
		return nil
	})
}

func (m *MemStore) RemoveVolunteer(_ context.Context, id, userID primitive.ObjectID) (models.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reqs[id]
	if !ok {
		return models.Request{}, ErrNotFound
	}
	for i, v := range r.Volunteers {
		if v == userID {
			r.Volunteers = append(r.Volunteers[:i:i], r.Volunteers[i+1:]...)
			r.UpdatedAt = now()
			break
		}
	}
	return clone(r), nil
}

// mutate applies fn under the write lock and stamps updated_at on success.
func (m *MemStore) mutate(id primitive.ObjectID, fn func(*models.Request) error) (models.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reqs[id]
	if !ok {
		return models.Request{}, ErrNotFound
	}
	if err := fn(r); err != nil {
		return models.Request{}, err
	}
	r.UpdatedAt = now()
	return clone(r), nil
}

func (m *MemStore) matches(r *models.Request, c Criteria) bool {
	if loc := strings.TrimSpace(c.Location); loc != "" {
		if !strings.Contains(strings.ToLower(r.Location), strings.ToLower(loc)) {
			return false
		}
	}
	if c.Active != nil && r.IsActive != *c.Active {
		return false
	}
	if c.Requester != nil && r.Requester != *c.Requester {
		return false
	}
	return true
}

// Find mirrors Store.Find: created_at in the requested direction, then id ascending.
func (m *MemStore) Find(_ context.Context, c Criteria) ([]models.Request, int64, error) {
	m.mu.RLock()
	all := make([]models.Request, 0, len(m.reqs))
	for _, r := range m.reqs {
		if m.matches(r, c) {
			all = append(all, clone(r))
		}
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if c.SortAsc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})

	total := int64(len(all))
	start := c.Skip
	if start < 0 || start > total {
		start = total
	}
	end := total
	if c.Limit > 0 && start+c.Limit < end {
		end = start + c.Limit
	}
	return all[start:end], total, nil
}

func (m *MemStore) CountByActive(_ context.Context) (active, inactive int64, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reqs {
		if r.IsActive {
			active++
		} else {
			inactive++
		}
	}
	return active, inactive, nil
}

func (m *MemStore) CountByLocation(_ context.Context) ([]LocationCount, error) {
	m.mu.RLock()
	counts := make(map[string]int64)
	for _, r := range m.reqs {
		counts[r.Location]++
	}
	m.mu.RUnlock()

	out := make([]LocationCount, 0, len(counts))
	for loc, n := range counts {
		out = append(out, LocationCount{Location: loc, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Location < out[j].Location
	})
	return out, nil
}

func (m *MemStore) CountByRequester(_ context.Context) ([]RequesterCount, error) {
	m.mu.RLock()
	counts := make(map[primitive.ObjectID]int64)
	for _, r := range m.reqs {
		counts[r.Requester]++
	}
	m.mu.RUnlock()

	out := make([]RequesterCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, RequesterCount{Requester: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return bytes.Compare(out[i].Requester[:], out[j].Requester[:]) < 0
	})
	return out, nil
}
