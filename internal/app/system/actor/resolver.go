package actor

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/app/system/respond"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const defaultLeeway = 30 * time.Second

// Claims is the token payload issued by the identity service.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Fetcher loads the current state of a user so role changes take effect
// without waiting for token expiry. It returns (nil, nil) when the user no
// longer exists.
type Fetcher interface {
	FetchActor(ctx context.Context, id primitive.ObjectID) (*Actor, error)
}

// Resolver verifies bearer tokens and builds Actors.
type Resolver struct {
	secret  []byte
	leeway  time.Duration
	fetcher Fetcher
	log     *zap.Logger
}

// NewResolver creates a Resolver for tokens signed with secret.
// fetcher may be nil, in which case the role is taken from the token.
func NewResolver(secret string, fetcher Fetcher, logger *zap.Logger) (*Resolver, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("actor resolver requires a jwt secret")
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended", zap.Int("length", len(secret)))
	}
	return &Resolver{
		secret:  []byte(secret),
		leeway:  defaultLeeway,
		fetcher: fetcher,
		log:     logger,
	}, nil
}

// Resolve verifies token and returns its actor. A token for a user that no
// longer exists resolves to (nil, nil).
func (v *Resolver) Resolve(ctx context.Context, token string) (*Actor, error) {
	claims := Claims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}

	rawID := strings.TrimSpace(claims.ID)
	if rawID == "" {
		rawID = strings.TrimSpace(claims.Subject)
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, errors.New("token subject is not a valid user id")
	}

	if v.fetcher != nil {
		return v.fetcher.FetchActor(ctx, id)
	}
	return &Actor{ID: id, Role: strings.ToLower(strings.TrimSpace(claims.Role))}, nil
}

// LoadActor injects the caller into the request context when a valid bearer
// token is present. Missing or invalid tokens leave the request anonymous;
// routes that need a caller add RequireSignedIn.
func (v *Resolver) LoadActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		a, err := v.Resolve(r.Context(), token)
		if err != nil {
			v.log.Debug("bearer token rejected", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if a != nil {
			r = r.WithContext(WithActor(r.Context(), a))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects anonymous callers with 401.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Current(r) == nil {
			respond.Error(w, nil, "", apperr.Unauthorized("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects anonymous callers with 401 and callers without one of
// the allowed roles with 403.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a := Current(r)
			if a == nil {
				respond.Error(w, nil, "", apperr.Unauthorized("authentication required"))
				return
			}
			if _, ok := set[strings.ToLower(a.Role)]; !ok {
				respond.Error(w, nil, "", apperr.Forbidden("access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return ""
	}
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	// Some clients send the bare token without a scheme.
	return h
}
