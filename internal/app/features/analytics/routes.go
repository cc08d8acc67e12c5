// internal/app/features/analytics/routes.go
package analytics

import (
	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the analytics views (typically at "/api/analytics").
// Access is restricted to admins.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(actor.RequireRole(models.RoleAdmin))

		pr.Get("/", h.ServeSummary)
		pr.Get("/requests-status", h.ServeRequestsStatus)
		pr.Get("/requests-location", h.ServeRequestsByLocation)
		pr.Get("/total-users", h.ServeTotalUsers)
		pr.Get("/requests-per-user", h.ServeRequestsPerUser)
	})

	return r
}
