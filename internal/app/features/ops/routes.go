// internal/app/features/ops/routes.go
package ops

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the operation endpoint (typically at "/api/ops").
// Each operation enforces its own authorization; limit may be nil.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Group(func(pr chi.Router) {
		if limit != nil {
			pr.Use(limit)
		}
		pr.Post("/", h.HandleCall)
	})

	return r
}
