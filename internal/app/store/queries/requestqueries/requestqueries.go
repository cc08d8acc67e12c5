// Package requestqueries is the read side for request lists: it turns
// loosely-typed list parameters into store criteria, applies pagination,
// and joins user references onto the results.
package requestqueries

import (
	"context"
	"strings"

	requeststore "github.com/dalemusser/volunteerhub/internal/app/store/requests"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/app/system/paging"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Source is the store method the planner reads through.
type Source interface {
	Find(ctx context.Context, c requeststore.Criteria) ([]models.Request, int64, error)
}

// Directory resolves user ids to display refs.
type Directory interface {
	LookupRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error)
}

// Params are list parameters as callers send them.
type Params struct {
	Location  string // case-insensitive substring
	Active    string // "true" | "false"; anything else means both
	Requester string // user id hex; empty means all
	Sort      string // "asc" | "desc" (default)
	Page      int    // 0 means 1
	Limit     int    // 0 means the configured default
}

// Result is one page of a request list.
type Result struct {
	Items       []models.RequestView `json:"requests"`
	TotalCount  int64                `json:"totalCount"`
	CurrentPage int                  `json:"currentPage"`
	TotalPages  int                  `json:"totalPages"`
}

// Planner serves request lists.
type Planner struct {
	src          Source
	users        Directory
	defaultLimit int
}

// New returns a planner. defaultLimit <= 0 uses paging.DefaultLimit.
func New(src Source, users Directory, defaultLimit int) *Planner {
	if defaultLimit <= 0 {
		defaultLimit = paging.DefaultLimit
	}
	return &Planner{src: src, users: users, defaultLimit: defaultLimit}
}

// ParseActive maps the active parameter to a tri-state filter.
func ParseActive(s string) *bool {
	switch strings.TrimSpace(s) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}

// sortAscending reports whether s asks for oldest first. Anything other
// than "asc" sorts newest first.
func sortAscending(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "asc")
}

// Criteria builds store criteria and the normalized page from p.
func (pl *Planner) Criteria(p Params) (requeststore.Criteria, paging.Params, error) {
	pg := paging.Normalize(p.Page, p.Limit, pl.defaultLimit)
	c := requeststore.Criteria{
		Location: strings.TrimSpace(p.Location),
		Active:   ParseActive(p.Active),
		SortAsc:  sortAscending(p.Sort),
		Skip:     pg.Skip(),
		Limit:    int64(pg.Limit),
	}
	if s := strings.TrimSpace(p.Requester); s != "" {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return requeststore.Criteria{}, paging.Params{}, apperr.Validation("invalid requester id %q", s)
		}
		c.Requester = &oid
	}
	return c, pg, nil
}

// List returns one page of requests matching p. Pages past the end return
// no items but still report the total.
func (pl *Planner) List(ctx context.Context, p Params) (Result, error) {
	c, pg, err := pl.Criteria(p)
	if err != nil {
		return Result{}, err
	}

	ctx, cancel := timeouts.WithMedium(ctx)
	defer cancel()

	rows, total, err := pl.src.Find(ctx, c)
	if err != nil {
		return Result{}, apperr.Internal("list requests", err)
	}
	items, err := Populate(ctx, pl.users, rows)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Items:       items,
		TotalCount:  total,
		CurrentPage: pg.Page,
		TotalPages:  paging.TotalPages(total, pg.Limit),
	}, nil
}

// Populate joins requester and volunteer refs onto rows with one directory
// lookup. Unknown users become ID-only refs.
func Populate(ctx context.Context, users Directory, rows []models.Request) ([]models.RequestView, error) {
	var ids []primitive.ObjectID
	for _, r := range rows {
		ids = append(ids, r.Requester)
		ids = append(ids, r.Volunteers...)
	}
	refs := map[primitive.ObjectID]models.UserRef{}
	if len(ids) > 0 && users != nil {
		var err error
		refs, err = users.LookupRefs(ctx, ids)
		if err != nil {
			return nil, apperr.Internal("lookup users", err)
		}
	}

	out := make([]models.RequestView, 0, len(rows))
	for _, r := range rows {
		out = append(out, View(r, refs))
	}
	return out, nil
}

// View composes a RequestView from r and already-resolved refs.
func View(r models.Request, refs map[primitive.ObjectID]models.UserRef) models.RequestView {
	vols := make([]models.UserRef, 0, len(r.Volunteers))
	for _, v := range r.Volunteers {
		vols = append(vols, userstore.RefFor(refs, v))
	}
	return models.RequestView{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Requester:   userstore.RefFor(refs, r.Requester),
		Status:      r.Status,
		IsActive:    r.IsActive,
		Volunteers:  vols,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
