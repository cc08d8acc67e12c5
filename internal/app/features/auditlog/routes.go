// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit history (typically at "/api/audit").
// Access is restricted to admins.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(actor.RequireRole(models.RoleAdmin))

		pr.Get("/", h.ServeList)
		pr.Get("/requests/{id}", h.ServeRequestHistory)
	})

	return r
}
