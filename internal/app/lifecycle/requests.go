package lifecycle

import (
	"context"
	"time"

	requeststore "github.com/dalemusser/volunteerhub/internal/app/store/requests"
	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/volunteerhub/internal/app/system/regions"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

// NewRequest is the input to Create.
type NewRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// Changes is the input to Update. Nil fields are left unchanged.
type Changes struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

// present lists the names of the non-nil fields.
func (c Changes) present() []string {
	var out []string
	if c.Title != nil {
		out = append(out, "title")
	}
	if c.Description != nil {
		out = append(out, "description")
	}
	if c.Location != nil {
		out = append(out, "location")
	}
	return out
}

// location sanitizes loc and, when enabled, checks it against the regions list.
func (e *Engine) location(loc string) (string, error) {
	loc = htmlsanitize.PlainText(loc)
	if loc == "" {
		return "", apperr.Validation("location is required")
	}
	if !e.validateLocations {
		return loc, nil
	}
	canon, ok := regions.Canonical(loc)
	if !ok {
		return "", apperr.Validation("unknown location %q", loc)
	}
	return canon, nil
}

func (e *Engine) cleanNew(in NewRequest) (NewRequest, error) {
	out := NewRequest{
		Title:       htmlsanitize.PlainText(in.Title),
		Description: htmlsanitize.PlainText(in.Description),
	}
	if out.Title == "" {
		return NewRequest{}, apperr.Validation("title is required")
	}
	if out.Description == "" {
		return NewRequest{}, apperr.Validation("description is required")
	}
	loc, err := e.location(in.Location)
	if err != nil {
		return NewRequest{}, err
	}
	out.Location = loc
	return out, nil
}

func (e *Engine) cleanChanges(c Changes) (requeststore.Fields, error) {
	var f requeststore.Fields
	if c.Title != nil {
		f.Title = htmlsanitize.PlainTextPtr(c.Title)
		if *f.Title == "" {
			return f, apperr.Validation("title cannot be empty")
		}
	}
	if c.Description != nil {
		f.Description = htmlsanitize.PlainTextPtr(c.Description)
		if *f.Description == "" {
			return f, apperr.Validation("description cannot be empty")
		}
	}
	if c.Location != nil {
		loc, err := e.location(*c.Location)
		if err != nil {
			return f, err
		}
		f.Location = &loc
	}
	return f, nil
}

// Create stores a new active request owned by the actor.
func (e *Engine) Create(ctx context.Context, a *actor.Actor, in NewRequest) (_ models.RequestView, err error) {
	defer e.observe("create", time.Now(), &err)

	if err := e.policy.CanCreate(a); err != nil {
		return models.RequestView{}, err
	}
	in, err = e.cleanNew(in)
	if err != nil {
		return models.RequestView{}, err
	}

	ctx, cancel := newCtx(ctx)
	defer cancel()

	r, err := e.store.Create(ctx, a.ID, in.Title, in.Description, in.Location)
	if err != nil {
		return models.RequestView{}, storeErr("create request", err)
	}
	e.audit.RequestCreated(ctx, a.ID, r.ID, r.Location)
	return e.view(ctx, r), nil
}

// Get returns one request. Anonymous callers are allowed.
func (e *Engine) Get(ctx context.Context, _ *actor.Actor, id string) (_ models.RequestView, err error) {
	defer e.observe("get", time.Now(), &err)

	ctx, cancel := newCtx(ctx)
	defer cancel()

	r, err := e.load(ctx, id)
	if err != nil {
		return models.RequestView{}, err
	}
	return e.view(ctx, r), nil
}

// Update applies the present fields. Requester, status, activation and
// volunteers cannot be changed this way.
func (e *Engine) Update(ctx context.Context, a *actor.Actor, id string, c Changes) (_ models.RequestView, err error) {
	defer e.observe("update", time.Now(), &err)

	if a == nil {
		return models.RequestView{}, apperr.Unauthorized("sign in required")
	}
	f, err := e.cleanChanges(c)
	if err != nil {
		return models.RequestView{}, err
	}

	ctx, cancel := newCtx(ctx)
	defer cancel()

	cur, err := e.load(ctx, id)
	if err != nil {
		return models.RequestView{}, err
	}
	if err := e.policy.CanEdit(a, cur); err != nil {
		return models.RequestView{}, err
	}

	r, err := e.store.Update(ctx, cur.ID, f)
	if err != nil {
		return models.RequestView{}, storeErr("update request", err)
	}
	if !f.Empty() {
		e.audit.RequestUpdated(ctx, a.ID, r.ID, c.present())
	}
	return e.view(ctx, r), nil
}

// Delete removes a request. Its chat messages are kept.
func (e *Engine) Delete(ctx context.Context, a *actor.Actor, id string) (err error) {
	defer e.observe("delete", time.Now(), &err)

	if a == nil {
		return apperr.Unauthorized("sign in required")
	}

	ctx, cancel := newCtx(ctx)
	defer cancel()

	cur, err := e.load(ctx, id)
	if err != nil {
		return err
	}
	if err := e.policy.CanEdit(a, cur); err != nil {
		return err
	}
	if err := e.store.Delete(ctx, cur.ID); err != nil {
		return storeErr("delete request", err)
	}
	e.audit.RequestDeleted(ctx, a.ID, cur.ID)
	return nil
}

// ToggleActivation flips the activation flag.
func (e *Engine) ToggleActivation(ctx context.Context, a *actor.Actor, id string) (_ models.RequestView, err error) {
	defer e.observe("toggle_activation", time.Now(), &err)

	if err := e.policy.CanChangeActivation(a); err != nil {
		return models.RequestView{}, err
	}
	oid, err := parseID(id)
	if err != nil {
		return models.RequestView{}, err
	}

	ctx, cancel := newCtx(ctx)
	defer cancel()

	r, err := e.store.ToggleActive(ctx, oid)
	if err != nil {
		return models.RequestView{}, storeErr("toggle activation", err)
	}
	e.audit.ActivationChanged(ctx, a.ID, r.ID, r.IsActive)
	return e.view(ctx, r), nil
}

// SetActivation sets the activation flag; repeating it is a no-op.
func (e *Engine) SetActivation(ctx context.Context, a *actor.Actor, id string, active bool) (_ models.RequestView, err error) {
	defer e.observe("set_activation", time.Now(), &err)

	if err := e.policy.CanChangeActivation(a); err != nil {
		return models.RequestView{}, err
	}
	oid, err := parseID(id)
	if err != nil {
		return models.RequestView{}, err
	}

	ctx, cancel := newCtx(ctx)
	defer cancel()

	r, err := e.store.SetActive(ctx, oid, active)
	if err != nil {
		return models.RequestView{}, storeErr("set activation", err)
	}
	e.audit.ActivationChanged(ctx, a.ID, r.ID, r.IsActive)
	return e.view(ctx, r), nil
}

// Accept adds the actor as a volunteer. The requester and admins may not
// accept, and accepting twice is a conflict.
func (e *Engine) Accept(ctx context.Context, a *actor.Actor, id string) (_ models.RequestView, err error) {
	defer e.observe("accept", time.Now(), &err)

	if a == nil {
		return models.RequestView{}, apperr.Unauthorized("sign in required")
	}

	ctx, cancel := newCtx(ctx)
	defer cancel()

	cur, err := e.load(ctx, id)
	if err != nil {
		return models.RequestView{}, err
	}
	if err := e.policy.CanAccept(a, cur); err != nil {
		return models.RequestView{}, err
	}

	r, err := e.store.AddVolunteer(ctx, cur.ID, a.ID)
	if err != nil {
		return models.RequestView{}, storeErr("accept request", err)
	}
	e.audit.VolunteerAccepted(ctx, a.ID, r.ID)
	return e.view(ctx, r), nil
}

// Reject removes the actor from the volunteers. Rejecting a request the
// actor never accepted succeeds and changes nothing.
func (e *Engine) Reject(ctx context.Context, a *actor.Actor, id string) (_ models.RequestView, err error) {
	defer e.observe("reject", time.Now(), &err)

	if err := e.policy.CanReject(a); err != nil {
		return models.RequestView{}, err
	}

	ctx, cancel := newCtx(ctx)
	defer cancel()

	cur, err := e.load(ctx, id)
	if err != nil {
		return models.RequestView{}, err
	}
	r, err := e.store.RemoveVolunteer(ctx, cur.ID, a.ID)
	if err != nil {
		return models.RequestView{}, storeErr("reject request", err)
	}
	e.audit.VolunteerRejected(ctx, a.ID, r.ID, cur.HasVolunteer(a.ID))
	return e.view(ctx, r), nil
}
