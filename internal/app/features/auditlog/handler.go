// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	"github.com/dalemusser/volunteerhub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Reader is the read side of the audit store.
type Reader interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
	ForRequest(ctx context.Context, requestID primitive.ObjectID, limit int64) ([]audit.Event, error)
}

type Handler struct {
	Events Reader
	Log    *zap.Logger
}

// NewHandler constructs an audit history handler over the given store.
func NewHandler(events Reader, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Log:    logger,
	}
}
