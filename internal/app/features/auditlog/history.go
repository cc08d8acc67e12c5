// internal/app/features/auditlog/history.go
package auditlog

import (
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/store/audit"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/app/system/respond"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type historyResponse struct {
	RequestID string        `json:"requestId"`
	Events    []audit.Event `json:"events"`
}

// ServeRequestHistory handles GET /api/audit/requests/{id}: the most recent
// events for one request, newest first.
func (h *Handler) ServeRequestHistory(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "auditHistory", apperr.NotFound("request not found"))
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	events, err := h.Events.ForRequest(ctx, oid, pageSize)
	if err != nil {
		respond.Error(w, h.Log, "auditHistory", apperr.Internal("load request history", err))
		return
	}
	respond.JSON(w, http.StatusOK, historyResponse{RequestID: oid.Hex(), Events: events})
}
