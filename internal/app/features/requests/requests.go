// internal/app/features/requests/requests.go
package requests

import (
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/lifecycle"
	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/app/system/respond"
)

// ServeList handles GET /api/requests.
//
//	?location=kyiv&active=true&requester=<id>&sort=asc&page=2&limit=4
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	res, err := h.Planner.List(r.Context(), ListParams(r))
	if err != nil {
		respond.Error(w, h.Log, "listRequests", err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// ServeGet handles GET /api/requests/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	v, err := h.Engine.Get(r.Context(), actor.Current(r), requestID(r))
	if err != nil {
		respond.Error(w, h.Log, "getRequest", err)
		return
	}
	respond.JSON(w, http.StatusOK, v)
}

// HandleCreate handles POST /api/requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in lifecycle.NewRequest
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(w, h.Log, "createRequest", err)
		return
	}
	v, err := h.Engine.Create(r.Context(), actor.Current(r), in)
	if err != nil {
		respond.Error(w, h.Log, "createRequest", err)
		return
	}
	respond.JSON(w, http.StatusCreated, v)
}

// HandleUpdate handles PUT /api/requests/{id}. Absent fields are unchanged.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var c lifecycle.Changes
	if err := respond.DecodeJSON(r, &c); err != nil {
		respond.Error(w, h.Log, "updateRequest", err)
		return
	}
	v, err := h.Engine.Update(r.Context(), actor.Current(r), requestID(r), c)
	if err != nil {
		respond.Error(w, h.Log, "updateRequest", err)
		return
	}
	respond.JSON(w, http.StatusOK, v)
}

// HandleDelete handles DELETE /api/requests/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Delete(r.Context(), actor.Current(r), requestID(r)); err != nil {
		respond.Error(w, h.Log, "deleteRequest", err)
		return
	}
	respond.Message(w, http.StatusOK, "Request deleted")
}

// HandleToggle handles PATCH /api/requests/{id}/toggle-activation.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	v, err := h.Engine.ToggleActivation(r.Context(), actor.Current(r), requestID(r))
	if err != nil {
		respond.Error(w, h.Log, "toggleActivation", err)
		return
	}
	respond.JSON(w, http.StatusOK, v)
}

var errMissingActive = apperr.Validation("isActive is required")

type activeBody struct {
	IsActive *bool `json:"isActive"`
}

// HandleSetActive handles PUT /api/requests/{id}/active with {"isActive": bool}.
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	var body activeBody
	if err := respond.DecodeJSON(r, &body); err != nil {
		respond.Error(w, h.Log, "setActivation", err)
		return
	}
	if body.IsActive == nil {
		respond.Error(w, h.Log, "setActivation", errMissingActive)
		return
	}
	v, err := h.Engine.SetActivation(r.Context(), actor.Current(r), requestID(r), *body.IsActive)
	if err != nil {
		respond.Error(w, h.Log, "setActivation", err)
		return
	}
	respond.JSON(w, http.StatusOK, v)
}

// HandleAccept handles POST /api/requests/{id}/accept.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	v, err := h.Engine.Accept(r.Context(), actor.Current(r), requestID(r))
	if err != nil {
		respond.Error(w, h.Log, "acceptRequest", err)
		return
	}
	respond.JSON(w, http.StatusOK, v)
}

// HandleReject handles POST /api/requests/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	v, err := h.Engine.Reject(r.Context(), actor.Current(r), requestID(r))
	if err != nil {
		respond.Error(w, h.Log, "rejectRequest", err)
		return
	}
	respond.JSON(w, http.StatusOK, v)
}
