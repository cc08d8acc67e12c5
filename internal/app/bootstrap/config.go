// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/dalemusser/volunteerhub/internal/app/policy/requestpolicy"
	"github.com/dalemusser/volunteerhub/internal/app/system/auditlog"
	"github.com/dalemusser/volunteerhub/internal/app/system/paging"
	"github.com/dalemusser/volunteerhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const (
	backendMongo  = "mongo"
	backendMemory = "memory"
)

// appConfigKeys defines the configuration keys for VolunteerHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: VOLUNTEERHUB_MONGO_URI, VOLUNTEERHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: backendMongo, Desc: "Storage backend: 'mongo' or 'memory'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "volunteer_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "jwt_secret", Default: "", Desc: "HS256 secret used to verify bearer tokens (required)"},
	{Name: "actor_refresh", Default: true, Desc: "Re-read the caller's role from users on each request (mongo only)"},

	{Name: "activation_policy", Default: string(requestpolicy.ActivationAuthenticated), Desc: "Who may change activation: 'authenticated' or 'admin'"},
	{Name: "enforce_ownership", Default: true, Desc: "Limit update/delete to the requester"},
	{Name: "validate_locations", Default: true, Desc: "Restrict request locations to the regions list"},
	{Name: "default_page_limit", Default: paging.DefaultLimit, Desc: "Default page size for request lists"},

	{Name: "audit_log", Default: auditlog.All, Desc: "Lifecycle event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "rate_limit_per_minute", Default: 60, Desc: "Mutations allowed per client IP per minute (0 disables)"},
	{Name: "redis_addr", Default: "", Desc: "Redis address for a shared rate limit window (blank keeps it in-process)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "trusted_proxies", Default: "", Desc: "Comma-separated proxy IPs/CIDRs whose X-Forwarded-For is believed (blank trusts none)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "VOLUNTEERHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend:     strings.ToLower(strings.TrimSpace(appValues.String("store_backend"))),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:    appValues.String("jwt_secret"),
		ActorRefresh: appValues.Bool("actor_refresh"),

		ActivationPolicy:  appValues.String("activation_policy"),
		EnforceOwnership:  appValues.Bool("enforce_ownership"),
		ValidateLocations: appValues.Bool("validate_locations"),
		DefaultPageLimit:  appValues.Int("default_page_limit"),

		AuditLog: strings.ToLower(strings.TrimSpace(appValues.String("audit_log"))),

		RateLimitPerMinute: appValues.Int("rate_limit_per_minute"),
		RedisAddr:          strings.TrimSpace(appValues.String("redis_addr")),
		RedisPassword:      appValues.String("redis_password"),
		TrustedProxies:     appValues.String("trusted_proxies"),
	}

	return coreCfg, appCfg, nil
}

// Policy builds the lifecycle rules from config. ValidateConfig has
// already rejected unknown activation policies.
func (c AppConfig) Policy() requestpolicy.Policy {
	rule, _ := requestpolicy.ParseActivationRule(c.ActivationPolicy)
	return requestpolicy.Policy{Activation: rule, EnforceOwnership: c.EnforceOwnership}
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case backendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	case backendMemory:
		logger.Warn("using in-memory stores; data is lost on restart")
	default:
		return fmt.Errorf("store_backend must be %q or %q, got %q", backendMongo, backendMemory, appCfg.StoreBackend)
	}

	if strings.TrimSpace(appCfg.JWTSecret) == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if _, err := requestpolicy.ParseActivationRule(appCfg.ActivationPolicy); err != nil {
		return err
	}
	switch appCfg.AuditLog {
	case auditlog.All, auditlog.DB, auditlog.Log, auditlog.Off:
	default:
		return fmt.Errorf("audit_log must be one of all, db, log, off; got %q", appCfg.AuditLog)
	}
	if appCfg.DefaultPageLimit < 1 || appCfg.DefaultPageLimit > paging.MaxLimit {
		return fmt.Errorf("default_page_limit must be between 1 and %d", paging.MaxLimit)
	}
	if appCfg.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate_limit_per_minute must not be negative")
	}
	if _, err := ratelimit.ParseTrustedProxies(appCfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted_proxies: %w", err)
	}
	return nil
}
