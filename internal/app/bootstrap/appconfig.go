// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (VOLUNTEERHUB_*), config
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers ports, TLS, log level, CORS, and body limits.
type AppConfig struct {
	// Storage backend: "mongo" (default) or "memory" for local runs.
	StoreBackend string

	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer token verification
	JWTSecret    string // HS256 secret shared with the identity service
	ActorRefresh bool   // re-read the role from users on every request (mongo only)

	// Lifecycle rules
	ActivationPolicy  string // "authenticated" | "admin"
	EnforceOwnership  bool   // update/delete limited to the requester
	ValidateLocations bool   // restrict locations to the regions list
	DefaultPageLimit  int

	// Audit destination: all | db | log | off
	AuditLog string

	// Rate limiting of mutating routes; 0 disables. With RedisAddr set the
	// window is shared across replicas.
	RateLimitPerMinute int
	RedisAddr          string
	RedisPassword      string

	// Proxies allowed to report the client address via X-Forwarded-For.
	TrustedProxies string
}

// memoryBackend reports whether the in-process stores are in use.
func (c AppConfig) memoryBackend() bool {
	return c.StoreBackend == backendMemory
}
