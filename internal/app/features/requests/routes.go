// internal/app/features/requests/routes.go
package requests

import (
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the request API (typically at "/api/requests").
// Reads are public; mutations and chat require a signed-in caller and
// pass through limit, which may be nil.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)

	r.Group(func(pr chi.Router) {
		pr.Use(actor.RequireSignedIn)

		pr.Get("/{id}/chat", h.ServeChat)

		pr.Group(func(mr chi.Router) {
			if limit != nil {
				mr.Use(limit)
			}
			mr.Post("/", h.HandleCreate)
			mr.Put("/{id}", h.HandleUpdate)
			mr.Delete("/{id}", h.HandleDelete)
			mr.Patch("/{id}/toggle-activation", h.HandleToggle)
			mr.Put("/{id}/active", h.HandleSetActive)
			mr.Post("/{id}/accept", h.HandleAccept)
			mr.Post("/{id}/reject", h.HandleReject)
			mr.Post("/{id}/chat", h.HandlePostChat)
		})
	})

	return r
}
