package actor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-secret-0123456789-0123456789-abcdef"

func sign(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func validClaims(id primitive.ObjectID, role string) Claims {
	return Claims{
		ID:   id.Hex(),
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

type fakeFetcher struct {
	actors map[primitive.ObjectID]*Actor
}

func (f fakeFetcher) FetchActor(_ context.Context, id primitive.ObjectID) (*Actor, error) {
	return f.actors[id], nil
}

func TestNewResolver_RequiresSecret(t *testing.T) {
	if _, err := NewResolver("  ", nil, zap.NewNop()); err == nil {
		t.Fatal("expected empty secret to fail")
	}
}

func TestResolve_TokenClaims(t *testing.T) {
	r, err := NewResolver(testSecret, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	id := primitive.NewObjectID()

	a, err := r.Resolve(context.Background(), sign(t, testSecret, validClaims(id, "Admin")))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if a.ID != id {
		t.Errorf("ID: got %v, want %v", a.ID, id)
	}
	if !a.IsAdmin() {
		t.Errorf("expected admin role, got %q", a.Role)
	}
}

func TestResolve_Rejects(t *testing.T) {
	r, _ := NewResolver(testSecret, nil, zap.NewNop())
	id := primitive.NewObjectID()

	expired := validClaims(id, "user")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	badID := validClaims(id, "user")
	badID.ID = "not-an-object-id"

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", sign(t, "another-secret-0123456789-0123456789", validClaims(id, "user"))},
		{"expired", sign(t, testSecret, expired)},
		{"malformed id", sign(t, testSecret, badID)},
		{"garbage", "abc.def.ghi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Resolve(context.Background(), tt.token); err == nil {
				t.Error("expected token to be rejected")
			}
		})
	}
}

func TestResolve_FetcherOverridesRole(t *testing.T) {
	id := primitive.NewObjectID()
	f := fakeFetcher{actors: map[primitive.ObjectID]*Actor{id: {ID: id, Role: "user"}}}
	r, _ := NewResolver(testSecret, f, zap.NewNop())

	a, err := r.Resolve(context.Background(), sign(t, testSecret, validClaims(id, "admin")))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if a.IsAdmin() {
		t.Error("expected fetched role to win over the token role")
	}

	// Unknown user resolves to anonymous.
	other := primitive.NewObjectID()
	a, err = r.Resolve(context.Background(), sign(t, testSecret, validClaims(other, "user")))
	if err != nil || a != nil {
		t.Errorf("expected (nil, nil) for unknown user, got (%v, %v)", a, err)
	}
}

func TestLoadActor_AndRequireSignedIn(t *testing.T) {
	r, _ := NewResolver(testSecret, nil, zap.NewNop())
	id := primitive.NewObjectID()

	var seen *Actor
	h := r.LoadActor(RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		seen = Current(req)
		w.WriteHeader(http.StatusNoContent)
	})))

	// Anonymous → 401
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: got %d, want 401", rec.Code)
	}

	// Bearer token → actor attached
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, testSecret, validClaims(id, "user")))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("authenticated: got %d, want 204", rec.Code)
	}
	if seen == nil || seen.ID != id {
		t.Fatalf("actor not attached: %+v", seen)
	}

	// Bare token without scheme is accepted too
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", sign(t, testSecret, validClaims(id, "user")))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("bare token: got %d, want 204", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name  string
		actor *Actor
		want  int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"user", &Actor{ID: primitive.NewObjectID(), Role: "user"}, http.StatusForbidden},
		{"admin", &Actor{ID: primitive.NewObjectID(), Role: "admin"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.actor != nil {
				req = req.WithContext(WithActor(req.Context(), tt.actor))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
