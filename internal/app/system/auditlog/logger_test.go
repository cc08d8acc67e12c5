package auditlog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dalemusser/volunteerhub/internal/app/store/audit"
	"github.com/dalemusser/volunteerhub/internal/app/system/auditlog"
	"github.com/dalemusser/volunteerhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memSink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (s *memSink) Log(_ context.Context, e audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx := context.Background()

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.RequestCreated(ctx, primitive.NewObjectID(), primitive.NewObjectID(), "Kyiv Oblast")
	logger.ChatMessagePosted(ctx, primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())
}

func TestLogger_Destinations(t *testing.T) {
	tests := []struct {
		setting    string
		wantStored int
		wantLogged int
	}{
		{auditlog.All, 1, 1},
		{auditlog.DB, 1, 0},
		{auditlog.Log, 0, 1},
		{auditlog.Off, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.setting, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			sink := &memSink{}
			logger := auditlog.New(sink, zap.New(core), auditlog.Config{Lifecycle: tc.setting, Chat: auditlog.Off})

			logger.VolunteerAccepted(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())

			if len(sink.events) != tc.wantStored {
				t.Errorf("stored: got %d, want %d", len(sink.events), tc.wantStored)
			}
			if logs.Len() != tc.wantLogged {
				t.Errorf("logged: got %d, want %d", logs.Len(), tc.wantLogged)
			}
		})
	}
}

func TestLogger_CategoryRouting(t *testing.T) {
	sink := &memSink{}
	logger := auditlog.New(sink, zap.NewNop(), auditlog.Config{Lifecycle: auditlog.Off, Chat: auditlog.DB})

	logger.RequestDeleted(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	logger.ChatMessagePosted(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())

	if len(sink.events) != 1 {
		t.Fatalf("stored: got %d, want 1", len(sink.events))
	}
	if sink.events[0].EventType != audit.EventChatMessagePosted {
		t.Errorf("event type: got %q, want %q", sink.events[0].EventType, audit.EventChatMessagePosted)
	}
}

func TestLogger_NilSinkSkipsDB(t *testing.T) {
	logger := auditlog.New(nil, zap.NewNop(), auditlog.Config{Lifecycle: auditlog.All})
	logger.RequestUpdated(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), []string{"title"})
}

func TestLogger_SinkErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	sink := &memSink{err: errors.New("db down")}
	logger := auditlog.New(sink, zap.New(core), auditlog.Config{Lifecycle: auditlog.DB})

	logger.ActivationChanged(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), false)

	if logs.FilterMessage("failed to store audit event").Len() != 1 {
		t.Errorf("expected one store failure log, got %d entries", logs.Len())
	}
}

func TestMiddleware_CarriesClient(t *testing.T) {
	sink := &memSink{}
	logger := auditlog.New(sink, zap.NewNop(), auditlog.Config{Lifecycle: auditlog.DB})
	trusted, err := ratelimit.ParseTrustedProxies("192.0.2.0/24, 10.0.0.0/8")
	if err != nil {
		t.Fatalf("ParseTrustedProxies: %v", err)
	}

	h := auditlog.Middleware(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.RequestCreated(r.Context(), primitive.NewObjectID(), primitive.NewObjectID(), "Lviv Oblast")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/requests", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "TestBrowser/1.0")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if len(sink.events) != 1 {
		t.Fatalf("stored: got %d, want 1", len(sink.events))
	}
	e := sink.events[0]
	if e.IP != "203.0.113.7" {
		t.Errorf("IP: got %q, want %q", e.IP, "203.0.113.7")
	}
	if e.UserAgent != "TestBrowser/1.0" {
		t.Errorf("UserAgent: got %q, want %q", e.UserAgent, "TestBrowser/1.0")
	}
	if e.Details["location"] != "Lviv Oblast" {
		t.Errorf("location detail: got %q", e.Details["location"])
	}
}

func TestMiddleware_IgnoresForwardedFromUntrustedPeer(t *testing.T) {
	sink := &memSink{}
	logger := auditlog.New(sink, zap.NewNop(), auditlog.Config{Lifecycle: auditlog.DB})

	h := auditlog.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.RequestDeleted(r.Context(), primitive.NewObjectID(), primitive.NewObjectID())
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/requests/x", nil)
	req.RemoteAddr = "198.51.100.4:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if len(sink.events) != 1 {
		t.Fatalf("stored: got %d, want 1", len(sink.events))
	}
	if got := sink.events[0].IP; got != "198.51.100.4" {
		t.Errorf("IP: got %q, want %q", got, "198.51.100.4")
	}
}
