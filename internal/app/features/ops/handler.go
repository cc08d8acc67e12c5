// internal/app/features/ops/handler.go
package ops

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/app/system/respond"
	"go.uber.org/zap"
)

// Handler exposes the operation table over HTTP.
type Handler struct {
	Table Table
	Log   *zap.Logger
}

// NewHandler constructs an ops Handler.
func NewHandler(table Table, logger *zap.Logger) *Handler {
	return &Handler{Table: table, Log: logger}
}

type callBody struct {
	Operation string          `json:"operation"`
	Variables json.RawMessage `json:"variables"`
}

type callResult struct {
	Operation string `json:"operation"`
	Kind      Kind   `json:"kind"`
	Data      any    `json:"data"`
}

// ServeList handles GET /api/ops.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.Table.Entries())
}

// HandleCall handles POST /api/ops.
//
//	{ "operation": "acceptRequest", "variables": { "id": "..." } }
func (h *Handler) HandleCall(w http.ResponseWriter, r *http.Request) {
	var body callBody
	if err := respond.DecodeJSON(r, &body); err != nil {
		respond.Error(w, h.Log, "ops", err)
		return
	}
	name := strings.TrimSpace(body.Operation)
	if name == "" {
		respond.Error(w, h.Log, "ops", apperr.Validation("operation is required"))
		return
	}
	data, kind, err := h.Table.Dispatch(r.Context(), actor.Current(r), name, body.Variables)
	if err != nil {
		respond.Error(w, h.Log, name, err)
		return
	}
	respond.JSON(w, http.StatusOK, callResult{Operation: name, Kind: kind, Data: data})
}
