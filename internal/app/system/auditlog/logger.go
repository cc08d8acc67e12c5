// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/volunteerhub/internal/app/store/audit"
	"github.com/dalemusser/volunteerhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations accepted by Config fields.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration, one destination per category.
type Config struct {
	Lifecycle string
	Chat      string
}

// Sink persists audit events. *audit.Store satisfies it.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to a Sink (normally MongoDB) and to zap, per Config.
type Logger struct {
	store  Sink
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when no database is
// configured; "db" destinations are then skipped.
func New(store Sink, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

type clientKey struct{}

type client struct {
	ip        string
	userAgent string
}

// Middleware records the caller's address and user agent in the request
// context so lifecycle events can carry them. Forwarding headers count only
// when the peer is one of the trusted proxies.
func Middleware(trusted *ratelimit.TrustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := client{ip: ratelimit.ClientIP(r, trusted), userAgent: r.UserAgent()}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientKey{}, c)))
		})
	}
}

func clientFrom(ctx context.Context) client {
	c, _ := ctx.Value(clientKey{}).(client)
	return c
}


// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.RequestID != nil {
		fields = append(fields, zap.String("request_id", event.RequestID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so tests can pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryLifecycle:
		setting = l.config.Lifecycle
	case audit.CategoryChat:
		setting = l.config.Chat
	default:
		setting = All
	}
	if setting == Off {
		return
	}

	c := clientFrom(ctx)
	if event.IP == "" {
		event.IP = c.ip
	}
	if event.UserAgent == "" {
		event.UserAgent = c.userAgent
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) lifecycle(ctx context.Context, eventType string, actorID, requestID primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: eventType,
		ActorID:   &actorID,
		RequestID: &requestID,
		Success:   true,
		Details:   details,
	})
}

// --- Lifecycle Events ---

// RequestCreated logs a new request.
func (l *Logger) RequestCreated(ctx context.Context, actorID, requestID primitive.ObjectID, location string) {
	l.lifecycle(ctx, audit.EventRequestCreated, actorID, requestID, map[string]string{"location": location})
}

// RequestUpdated logs an edit; fields lists the names that were present.
func (l *Logger) RequestUpdated(ctx context.Context, actorID, requestID primitive.ObjectID, fields []string) {
	l.lifecycle(ctx, audit.EventRequestUpdated, actorID, requestID, map[string]string{"fields": strings.Join(fields, ",")})
}

// RequestDeleted logs a deletion.
func (l *Logger) RequestDeleted(ctx context.Context, actorID, requestID primitive.ObjectID) {
	l.lifecycle(ctx, audit.EventRequestDeleted, actorID, requestID, nil)
}

// ActivationChanged logs the activation flag after a toggle or set.
func (l *Logger) ActivationChanged(ctx context.Context, actorID, requestID primitive.ObjectID, active bool) {
	l.lifecycle(ctx, audit.EventRequestActivationChanged, actorID, requestID, map[string]string{"is_active": strconv.FormatBool(active)})
}

// VolunteerAccepted logs a user joining a request.
func (l *Logger) VolunteerAccepted(ctx context.Context, actorID, requestID primitive.ObjectID) {
	l.lifecycle(ctx, audit.EventVolunteerAccepted, actorID, requestID, nil)
}

// VolunteerRejected logs a user leaving a request. removed is false when
// the user was not a volunteer.
func (l *Logger) VolunteerRejected(ctx context.Context, actorID, requestID primitive.ObjectID, removed bool) {
	l.lifecycle(ctx, audit.EventVolunteerRejected, actorID, requestID, map[string]string{"removed": strconv.FormatBool(removed)})
}

// --- Chat Events ---

// ChatMessagePosted logs a new chat message.
func (l *Logger) ChatMessagePosted(ctx context.Context, actorID, requestID, messageID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryChat,
		EventType: audit.EventChatMessagePosted,
		ActorID:   &actorID,
		RequestID: &requestID,
		Success:   true,
		Details:   map[string]string{"message_id": messageID.Hex()},
	})
}
