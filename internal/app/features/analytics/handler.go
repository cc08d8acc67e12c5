// internal/app/features/analytics/handler.go
package analytics

import (
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/store/queries/analyticsqueries"
	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/app/system/respond"
	"go.uber.org/zap"
)

// Handler serves the admin analytics views.
type Handler struct {
	Reporter *analyticsqueries.Reporter
	Log      *zap.Logger
}

// NewHandler constructs an analytics Handler.
func NewHandler(reporter *analyticsqueries.Reporter, logger *zap.Logger) *Handler {
	return &Handler{Reporter: reporter, Log: logger}
}

// ServeSummary handles GET /api/analytics.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Reporter.Summary(r.Context(), actor.Current(r))
	if err != nil {
		respond.Error(w, h.Log, "analytics", err)
		return
	}
	respond.JSON(w, http.StatusOK, s)
}

// ServeRequestsStatus handles GET /api/analytics/requests-status.
func (h *Handler) ServeRequestsStatus(w http.ResponseWriter, r *http.Request) {
	s, err := h.Reporter.RequestsStatus(r.Context(), actor.Current(r))
	if err != nil {
		respond.Error(w, h.Log, "requestsStatus", err)
		return
	}
	respond.JSON(w, http.StatusOK, s)
}

// ServeRequestsByLocation handles GET /api/analytics/requests-location.
func (h *Handler) ServeRequestsByLocation(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reporter.RequestsByLocation(r.Context(), actor.Current(r))
	if err != nil {
		respond.Error(w, h.Log, "requestsByLocation", err)
		return
	}
	respond.JSON(w, http.StatusOK, rows)
}

// ServeTotalUsers handles GET /api/analytics/total-users.
func (h *Handler) ServeTotalUsers(w http.ResponseWriter, r *http.Request) {
	n, err := h.Reporter.TotalUsers(r.Context(), actor.Current(r))
	if err != nil {
		respond.Error(w, h.Log, "totalUsers", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]int64{"totalUsers": n})
}

// ServeRequestsPerUser handles GET /api/analytics/requests-per-user.
func (h *Handler) ServeRequestsPerUser(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reporter.RequestsPerUser(r.Context(), actor.Current(r))
	if err != nil {
		respond.Error(w, h.Log, "requestsPerUser", err)
		return
	}
	respond.JSON(w, http.StatusOK, rows)
}
