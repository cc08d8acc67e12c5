// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strings"

	"github.com/dalemusser/volunteerhub/internal/app/store/audit"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/app/system/paging"
	"github.com/dalemusser/volunteerhub/internal/app/system/respond"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const pageSize = 50

type listResponse struct {
	Events      []audit.Event `json:"events"`
	TotalCount  int64         `json:"totalCount"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
}

func optionalID(r *http.Request, key string) (*primitive.ObjectID, error) {
	s := strings.TrimSpace(query.Get(r, key))
	if s == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, apperr.Validation("invalid %s id %q", key, s)
	}
	return &oid, nil
}

// ServeList handles GET /api/audit, newest first.
//
//	?request=<id>&actor=<id>&event_type=volunteer_accepted&page=1&limit=50
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	requestID, err := optionalID(r, "request")
	if err != nil {
		respond.Error(w, h.Log, "auditList", err)
		return
	}
	actorID, err := optionalID(r, "actor")
	if err != nil {
		respond.Error(w, h.Log, "auditList", err)
		return
	}
	pg := paging.Parse(r, pageSize)

	filter := audit.QueryFilter{
		RequestID: requestID,
		ActorID:   actorID,
		EventType: strings.TrimSpace(query.Get(r, "event_type")),
		Limit:     int64(pg.Limit),
		Offset:    pg.Skip(),
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		respond.Error(w, h.Log, "auditList", apperr.Internal("query audit events", err))
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		respond.Error(w, h.Log, "auditList", apperr.Internal("count audit events", err))
		return
	}

	respond.JSON(w, http.StatusOK, listResponse{
		Events:      events,
		TotalCount:  total,
		CurrentPage: pg.Page,
		TotalPages:  paging.TotalPages(total, pg.Limit),
	})
}
