package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := NotFound("request %s not found", "abc")
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatal("not-found error must not match ErrConflict")
	}

	wrapped := fmt.Errorf("handler: %w", err)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatal("expected wrapped error to match ErrNotFound")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("title is required"), KindValidation},
		{"unauthorized", Unauthorized("sign in required"), KindUnauthorized},
		{"forbidden", Forbidden("no"), KindForbidden},
		{"conflict", Conflict("dup"), KindConflict},
		{"wrapped", fmt.Errorf("x: %w", NotFound("gone")), KindNotFound},
		{"foreign error", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindInternal:     http.StatusInternalServerError,
	}
	for k, want := range tests {
		if got := HTTPStatus(k); got != want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", k, got, want)
		}
	}
}

func TestPublicMessage_HidesInternalCause(t *testing.T) {
	err := Internal("load request", errors.New("connection refused"))
	if got := PublicMessage(err); got != "internal error" {
		t.Errorf("PublicMessage() = %q, want %q", got, "internal error")
	}
	if got := PublicMessage(Conflict("already a volunteer")); got != "already a volunteer" {
		t.Errorf("PublicMessage() = %q", got)
	}
}
