// Package analyticsqueries provides the admin-only aggregate views over
// requests and users.
package analyticsqueries

import (
	"context"

	"github.com/dalemusser/volunteerhub/internal/app/policy/requestpolicy"
	requeststore "github.com/dalemusser/volunteerhub/internal/app/store/requests"
	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status labels used in StatusStats.
const (
	StatusActive      = "Active"
	StatusDeactivated = "Deactivated"
)

// RequestCounter is the aggregate side of the request store.
type RequestCounter interface {
	CountByActive(ctx context.Context) (active, inactive int64, err error)
	CountByLocation(ctx context.Context) ([]requeststore.LocationCount, error)
	CountByRequester(ctx context.Context) ([]requeststore.RequesterCount, error)
}

// UserDirectory counts users and resolves refs.
type UserDirectory interface {
	Count(ctx context.Context) (int64, error)
	LookupRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error)
}

// StatusCount is one row of StatusStats.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Summary is the combined analytics view.
type Summary struct {
	TotalUsers          int64                        `json:"totalUsers"`
	ActiveRequests      int64                        `json:"activeRequests"`
	DeactivatedRequests int64                        `json:"deactivatedRequests"`
	LocationStats       []requeststore.LocationCount `json:"locationStats"`
	StatusStats         []StatusCount                `json:"statusStats"`
}

// RequestsStatus is the active/inactive split.
type RequestsStatus struct {
	ActiveCount   int64 `json:"activeCount"`
	InactiveCount int64 `json:"inactiveCount"`
}

// UserInfo is the contact part of a per-user row.
type UserInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// UserRequestCount is one row of the requests-per-user view.
type UserRequestCount struct {
	UserID   primitive.ObjectID `bson:"_id" json:"_id"`
	Count    int64              `bson:"count" json:"count"`
	UserInfo UserInfo           `bson:"userInfo" json:"userInfo"`
}

// PerUserFunc computes the requests-per-user view.
type PerUserFunc func(ctx context.Context) ([]UserRequestCount, error)

// Reporter serves analytics to admins.
type Reporter struct {
	reqs    RequestCounter
	users   UserDirectory
	perUser PerUserFunc
	policy  requestpolicy.Policy
}

// New returns a Reporter. A nil perUser joins CountByRequester with the
// user directory.
func New(reqs RequestCounter, users UserDirectory, perUser PerUserFunc, policy requestpolicy.Policy) *Reporter {
	if perUser == nil {
		perUser = JoinedRequestsPerUser(reqs, users)
	}
	return &Reporter{reqs: reqs, users: users, perUser: perUser, policy: policy}
}

// Summary returns the combined analytics view.
func (rp *Reporter) Summary(ctx context.Context, a *actor.Actor) (Summary, error) {
	if err := rp.policy.CanViewAnalytics(a); err != nil {
		return Summary{}, err
	}
	ctx, cancel := timeouts.WithMedium(ctx)
	defer cancel()

	total, err := rp.users.Count(ctx)
	if err != nil {
		return Summary{}, apperr.Internal("count users", err)
	}
	active, inactive, err := rp.reqs.CountByActive(ctx)
	if err != nil {
		return Summary{}, apperr.Internal("count requests by status", err)
	}
	locs, err := rp.reqs.CountByLocation(ctx)
	if err != nil {
		return Summary{}, apperr.Internal("count requests by location", err)
	}
	return Summary{
		TotalUsers:          total,
		ActiveRequests:      active,
		DeactivatedRequests: inactive,
		LocationStats:       locs,
		StatusStats: []StatusCount{
			{Status: StatusActive, Count: active},
			{Status: StatusDeactivated, Count: inactive},
		},
	}, nil
}

// RequestsStatus returns the active/inactive split.
func (rp *Reporter) RequestsStatus(ctx context.Context, a *actor.Actor) (RequestsStatus, error) {
	if err := rp.policy.CanViewAnalytics(a); err != nil {
		return RequestsStatus{}, err
	}
	ctx, cancel := timeouts.WithMedium(ctx)
	defer cancel()

	active, inactive, err := rp.reqs.CountByActive(ctx)
	if err != nil {
		return RequestsStatus{}, apperr.Internal("count requests by status", err)
	}
	return RequestsStatus{ActiveCount: active, InactiveCount: inactive}, nil
}

// RequestsByLocation returns request counts per location, largest first.
func (rp *Reporter) RequestsByLocation(ctx context.Context, a *actor.Actor) ([]requeststore.LocationCount, error) {
	if err := rp.policy.CanViewAnalytics(a); err != nil {
		return nil, err
	}
	ctx, cancel := timeouts.WithMedium(ctx)
	defer cancel()

	locs, err := rp.reqs.CountByLocation(ctx)
	if err != nil {
		return nil, apperr.Internal("count requests by location", err)
	}
	return locs, nil
}

// TotalUsers returns the number of users.
func (rp *Reporter) TotalUsers(ctx context.Context, a *actor.Actor) (int64, error) {
	if err := rp.policy.CanViewAnalytics(a); err != nil {
		return 0, err
	}
	ctx, cancel := timeouts.WithMedium(ctx)
	defer cancel()

	n, err := rp.users.Count(ctx)
	if err != nil {
		return 0, apperr.Internal("count users", err)
	}
	return n, nil
}

// RequestsPerUser returns request counts per requester with contact info.
// Requesters with no user document are left out.
func (rp *Reporter) RequestsPerUser(ctx context.Context, a *actor.Actor) ([]UserRequestCount, error) {
	if err := rp.policy.CanViewAnalytics(a); err != nil {
		return nil, err
	}
	ctx, cancel := timeouts.WithMedium(ctx)
	defer cancel()

	rows, err := rp.perUser(ctx)
	if err != nil {
		return nil, apperr.Internal("count requests per user", err)
	}
	return rows, nil
}

// JoinedRequestsPerUser computes requests-per-user from the store's
// per-requester counts and a directory lookup.
func JoinedRequestsPerUser(reqs RequestCounter, users UserDirectory) PerUserFunc {
	return func(ctx context.Context) ([]UserRequestCount, error) {
		counts, err := reqs.CountByRequester(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]primitive.ObjectID, 0, len(counts))
		for _, c := range counts {
			ids = append(ids, c.Requester)
		}
		refs, err := users.LookupRefs(ctx, ids)
		if err != nil {
			return nil, err
		}

		out := make([]UserRequestCount, 0, len(counts))
		for _, c := range counts {
			ref, ok := refs[c.Requester]
			if !ok {
				continue
			}
			out = append(out, UserRequestCount{
				UserID:   c.Requester,
				Count:    c.Count,
				UserInfo: UserInfo{Name: ref.Name, Email: ref.Email},
			})
		}
		return out, nil
	}
}
