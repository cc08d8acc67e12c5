// internal/app/features/requests/handler.go
package requests

import (
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/lifecycle"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/requestqueries"
	"github.com/dalemusser/volunteerhub/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the request and chat JSON API.
type Handler struct {
	Engine  *lifecycle.Engine
	Planner *requestqueries.Planner
	Log     *zap.Logger
}

// NewHandler constructs a requests Handler.
func NewHandler(engine *lifecycle.Engine, planner *requestqueries.Planner, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:  engine,
		Planner: planner,
		Log:     logger,
	}
}

// ListParams reads list parameters from the query string.
func ListParams(r *http.Request) requestqueries.Params {
	return requestqueries.Params{
		Location:  query.Get(r, "location"),
		Active:    query.Get(r, "active"),
		Requester: query.Get(r, "requester"),
		Sort:      query.Get(r, "sort"),
		Page:      paging.ParseInt(query.Get(r, "page")),
		Limit:     paging.ParseInt(query.Get(r, "limit")),
	}
}

func requestID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
