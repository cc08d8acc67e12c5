// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs after DB connections and schema setup, before the handler
// is built. It logs the effective rules so operators can see which
// policy variant is live.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	p := appCfg.Policy()
	t := timeouts.Current()
	logger.Info("volunteerhub starting",
		zap.String("store_backend", appCfg.StoreBackend),
		zap.String("activation_policy", string(p.Activation)),
		zap.Bool("enforce_ownership", p.EnforceOwnership),
		zap.Bool("validate_locations", appCfg.ValidateLocations),
		zap.Int("default_page_limit", appCfg.DefaultPageLimit),
		zap.String("audit_log", appCfg.AuditLog),
		zap.Int("rate_limit_per_minute", appCfg.RateLimitPerMinute),
		zap.Bool("shared_rate_limit", deps.Redis != nil),
		zap.Duration("timeout_short", t.Short),
		zap.Duration("timeout_medium", t.Medium))
	return nil
}
