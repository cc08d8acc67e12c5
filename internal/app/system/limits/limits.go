// internal/app/system/limits/limits.go
package limits

import "net/http"

// Request body size limits.
const (
	// MaxJSONBody caps API request bodies.
	MaxJSONBody = 100 << 10 // 100 KB
)

// Body caps the request body at n bytes. Reads past the cap fail, which
// JSON decoding reports as a validation error.
func Body(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
