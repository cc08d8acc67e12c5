// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/system/respond"
	"go.uber.org/zap"
)

// Allower decides whether one more request for key fits the quota and
// reports what is left of it.
type Allower interface {
	Allow(key string) bool
	Remaining(key string) int
}

// Limiter is an in-process fixed-window limiter. It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per duration per key.
// Expired windows are swept until ctx is done.
func New(ctx context.Context, limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
	}
	go l.cleanupLoop(ctx, 2*duration)
	return l
}

// Allow reports whether a request for key is allowed and counts it.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]
	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many requests are left for key in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists || time.Now().After(w.expiresAt) {
		return l.limit
	}
	if remaining := l.limit - w.count; remaining > 0 {
		return remaining
	}
	return 0
}

func (l *Limiter) cleanupLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			now := time.Now()
			for key, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

type errorBody struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

// Middleware rejects requests over quota with 429, keyed by client IP, and
// reports the quota left in X-RateLimit-Remaining.
func Middleware(l Allower, trusted *TrustedProxies, retryAfter time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r, trusted)
			allowed := l.Allow(ip)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(l.Remaining(ip)))
			if allowed {
				next.ServeHTTP(w, r)
				return
			}
			logger.Debug("rate limited", zap.String("ip", ip), zap.String("path", r.URL.Path))
			if retryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			}
			var body errorBody
			body.Error.Kind = "rate_limited"
			body.Error.Message = "too many requests, slow down"
			respond.JSON(w, http.StatusTooManyRequests, body)
		})
	}
}
