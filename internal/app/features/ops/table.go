// internal/app/features/ops/table.go
package ops

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/dalemusser/volunteerhub/internal/app/lifecycle"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/analyticsqueries"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/requestqueries"
	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
)

// Kind tags an operation as read-only or mutating.
type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

// RunFunc executes one operation with its raw variables.
type RunFunc func(ctx context.Context, a *actor.Actor, vars json.RawMessage) (any, error)

// Op is one entry of the operation table.
type Op struct {
	Name string
	Kind Kind
	Run  RunFunc
}

// Table maps operation names to handlers.
type Table map[string]Op

// Entry is the listing shape of an Op.
type Entry struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Entries lists the table sorted by name.
func (t Table) Entries() []Entry {
	out := make([]Entry, 0, len(t))
	for _, op := range t {
		out = append(out, Entry{Name: op.Name, Kind: op.Kind})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dispatch runs the named operation.
func (t Table) Dispatch(ctx context.Context, a *actor.Actor, name string, vars json.RawMessage) (any, Kind, error) {
	op, ok := t[name]
	if !ok {
		return nil, "", apperr.Validation("unknown operation %q", name)
	}
	v, err := op.Run(ctx, a, vars)
	return v, op.Kind, err
}

func (t Table) add(name string, kind Kind, run RunFunc) {
	t[name] = Op{Name: name, Kind: kind, Run: run}
}

// decode reads vars into v. Missing variables decode as the zero value.
func decode(vars json.RawMessage, v any) error {
	if len(vars) == 0 || string(vars) == "null" {
		return nil
	}
	if err := json.Unmarshal(vars, v); err != nil {
		return apperr.Validation("invalid variables")
	}
	return nil
}

type idVars struct {
	ID string `json:"id"`
}

type listVars struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	Location  string `json:"location"`
	Sort      string `json:"sort"`
	Active    string `json:"active"`
	Requester string `json:"requester"`
}

type updateVars struct {
	ID string `json:"id"`
	lifecycle.Changes
}

type activeVars struct {
	ID       string `json:"id"`
	IsActive *bool  `json:"isActive"`
}

type chatVars struct {
	RequestID string `json:"requestId"`
	Message   string `json:"message"`
}

// withID adapts an engine call taking a request id.
func withID(fn func(ctx context.Context, a *actor.Actor, id string) (any, error)) RunFunc {
	return func(ctx context.Context, a *actor.Actor, vars json.RawMessage) (any, error) {
		var v idVars
		if err := decode(vars, &v); err != nil {
			return nil, err
		}
		return fn(ctx, a, v.ID)
	}
}

// NewTable declares every operation the API exposes.
func NewTable(engine *lifecycle.Engine, planner *requestqueries.Planner, reporter *analyticsqueries.Reporter) Table {
	t := Table{}

	t.add("getRequests", KindQuery, func(ctx context.Context, _ *actor.Actor, vars json.RawMessage) (any, error) {
		var v listVars
		if err := decode(vars, &v); err != nil {
			return nil, err
		}
		return planner.List(ctx, requestqueries.Params{
			Location:  v.Location,
			Active:    v.Active,
			Requester: v.Requester,
			Sort:      v.Sort,
			Page:      v.Page,
			Limit:     v.Limit,
		})
	})
	t.add("getRequestById", KindQuery, withID(func(ctx context.Context, a *actor.Actor, id string) (any, error) {
		return engine.Get(ctx, a, id)
	}))
	t.add("getChatMessages", KindQuery, func(ctx context.Context, a *actor.Actor, vars json.RawMessage) (any, error) {
		var v chatVars
		if err := decode(vars, &v); err != nil {
			return nil, err
		}
		return engine.Messages(ctx, a, v.RequestID)
	})

	t.add("createRequest", KindMutation, func(ctx context.Context, a *actor.Actor, vars json.RawMessage) (any, error) {
		var v lifecycle.NewRequest
		if err := decode(vars, &v); err != nil {
			return nil, err
		}
		return engine.Create(ctx, a, v)
	})
	t.add("updateRequest", KindMutation, func(ctx context.Context, a *actor.Actor, vars json.RawMessage) (any, error) {
		var v updateVars
		if err := decode(vars, &v); err != nil {
			return nil, err
		}
		return engine.Update(ctx, a, v.ID, v.Changes)
	})
	t.add("deleteRequest", KindMutation, withID(func(ctx context.Context, a *actor.Actor, id string) (any, error) {
		if err := engine.Delete(ctx, a, id); err != nil {
			return nil, err
		}
		return "Request deleted", nil
	}))
	t.add("toggleActivation", KindMutation, withID(func(ctx context.Context, a *actor.Actor, id string) (any, error) {
		return engine.ToggleActivation(ctx, a, id)
	}))
	t.add("setActivation", KindMutation, func(ctx context.Context, a *actor.Actor, vars json.RawMessage) (any, error) {
		var v activeVars
		if err := decode(vars, &v); err != nil {
			return nil, err
		}
		if v.IsActive == nil {
			return nil, apperr.Validation("isActive is required")
		}
		return engine.SetActivation(ctx, a, v.ID, *v.IsActive)
	})
	t.add("acceptRequest", KindMutation, withID(func(ctx context.Context, a *actor.Actor, id string) (any, error) {
		return engine.Accept(ctx, a, id)
	}))
	t.add("rejectRequest", KindMutation, withID(func(ctx context.Context, a *actor.Actor, id string) (any, error) {
		return engine.Reject(ctx, a, id)
	}))
	t.add("createChatMessage", KindMutation, func(ctx context.Context, a *actor.Actor, vars json.RawMessage) (any, error) {
		var v chatVars
		if err := decode(vars, &v); err != nil {
			return nil, err
		}
		return engine.PostMessage(ctx, a, v.RequestID, v.Message)
	})

	if reporter != nil {
		t.add("getAnalytics", KindQuery, func(ctx context.Context, a *actor.Actor, _ json.RawMessage) (any, error) {
			return reporter.Summary(ctx, a)
		})
		t.add("getRequestsStatus", KindQuery, func(ctx context.Context, a *actor.Actor, _ json.RawMessage) (any, error) {
			return reporter.RequestsStatus(ctx, a)
		})
		t.add("getRequestsLocation", KindQuery, func(ctx context.Context, a *actor.Actor, _ json.RawMessage) (any, error) {
			return reporter.RequestsByLocation(ctx, a)
		})
		t.add("getTotalUsers", KindQuery, func(ctx context.Context, a *actor.Actor, _ json.RawMessage) (any, error) {
			return reporter.TotalUsers(ctx, a)
		})
		t.add("getRequestsPerUser", KindQuery, func(ctx context.Context, a *actor.Actor, _ json.RawMessage) (any, error) {
			return reporter.RequestsPerUser(ctx, a)
		})
	}

	return t
}
