// Package lifecycle applies the request lifecycle rules: who may create,
// edit, delete, (de)activate, accept and leave a request, and who may use
// its chat log. It authorizes against the actor and the stored request,
// then mutates through the store. It holds no state of its own.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/policy/requestpolicy"
	chatstore "github.com/dalemusser/volunteerhub/internal/app/store/chat"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/requestqueries"
	requeststore "github.com/dalemusser/volunteerhub/internal/app/store/requests"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/app/system/auditlog"
	"github.com/dalemusser/volunteerhub/internal/app/system/metrics"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the request store contract the engine mutates through.
type Store interface {
	Create(ctx context.Context, requesterID primitive.ObjectID, title, description, location string) (models.Request, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Request, error)
	Update(ctx context.Context, id primitive.ObjectID, f requeststore.Fields) (models.Request, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (models.Request, error)
	ToggleActive(ctx context.Context, id primitive.ObjectID) (models.Request, error)
	AddVolunteer(ctx context.Context, id, userID primitive.ObjectID) (models.Request, error)
	RemoveVolunteer(ctx context.Context, id, userID primitive.ObjectID) (models.Request, error)
}

// ChatLog is the chat store contract.
type ChatLog interface {
	Append(ctx context.Context, requestID, authorID primitive.ObjectID, message string) (models.ChatMessage, error)
	List(ctx context.Context, requestID primitive.ObjectID) ([]models.ChatMessage, error)
}

// Config wires an Engine. Store and Chat are required; the rest default
// to no-ops.
type Config struct {
	Store   Store
	Chat    ChatLog
	Users   requestqueries.Directory
	Policy  requestpolicy.Policy
	Audit   *auditlog.Logger
	Metrics metrics.Recorder
	Logger  *zap.Logger

	// ValidateLocations restricts locations to the regions list and
	// stores the listed spelling.
	ValidateLocations bool
}

// Engine is the request lifecycle engine.
type Engine struct {
	store             Store
	chat              ChatLog
	users             requestqueries.Directory
	policy            requestpolicy.Policy
	audit             *auditlog.Logger
	metrics           metrics.Recorder
	log               *zap.Logger
	validateLocations bool
}

func New(cfg Config) *Engine {
	e := &Engine{
		store:             cfg.Store,
		chat:              cfg.Chat,
		users:             cfg.Users,
		policy:            cfg.Policy,
		audit:             cfg.Audit,
		metrics:           cfg.Metrics,
		log:               cfg.Logger,
		validateLocations: cfg.ValidateLocations,
	}
	if e.metrics == nil {
		e.metrics = metrics.Nop{}
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

// Policy returns the rules the engine enforces.
func (e *Engine) Policy() requestpolicy.Policy {
	return e.policy
}

// observe records the outcome of op. Use as: defer e.observe(op, time.Now(), &err).
func (e *Engine) observe(op string, start time.Time, err *error) {
	result := metrics.ResultOK
	if *err != nil {
		result = string(apperr.KindOf(*err))
	}
	e.metrics.Observe(op, result, time.Since(start))
}

// parseID turns a path id into an ObjectID. A malformed id cannot name an
// existing request, so it is reported as not found.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("request not found")
	}
	return oid, nil
}

// storeErr translates store errors into exactly one apperr kind.
func storeErr(op string, err error) error {
	var ae *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ae):
		return err
	case errors.Is(err, requeststore.ErrNotFound):
		return apperr.NotFound("request not found")
	case errors.Is(err, requeststore.ErrMissingField):
		return apperr.Validation("%v", err)
	case errors.Is(err, requeststore.ErrDuplicateVolunteer):
		return apperr.Conflict("you have already accepted this request")
	case errors.Is(err, requeststore.ErrRequesterVolunteer):
		return apperr.Forbidden("requester cannot volunteer on their own request")
	case errors.Is(err, requeststore.ErrWriteConflict):
		return apperr.Conflict("request changed, try again")
	case errors.Is(err, chatstore.ErrEmptyMessage):
		return apperr.Validation("message is required")
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Internal(op+": timed out", err)
	default:
		return apperr.Internal(op, err)
	}
}

// view joins user refs onto r. A directory failure after a successful
// write degrades to ID-only refs rather than failing the operation.
func (e *Engine) view(ctx context.Context, r models.Request) models.RequestView {
	views, err := requestqueries.Populate(ctx, e.users, []models.Request{r})
	if err != nil {
		e.log.Warn("populate request users", zap.String("request_id", r.ID.Hex()), zap.Error(err))
		return requestqueries.View(r, nil)
	}
	return views[0]
}

// load fetches the request named by id.
func (e *Engine) load(ctx context.Context, id string) (models.Request, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Request{}, err
	}
	r, err := e.store.Get(ctx, oid)
	if err != nil {
		return models.Request{}, storeErr("get request", err)
	}
	return r, nil
}

func newCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return timeouts.WithShort(ctx)
}
