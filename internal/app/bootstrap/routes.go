// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	analyticsfeature "github.com/dalemusser/volunteerhub/internal/app/features/analytics"
	auditfeature "github.com/dalemusser/volunteerhub/internal/app/features/auditlog"
	healthfeature "github.com/dalemusser/volunteerhub/internal/app/features/health"
	opsfeature "github.com/dalemusser/volunteerhub/internal/app/features/ops"
	requestsfeature "github.com/dalemusser/volunteerhub/internal/app/features/requests"
	"github.com/dalemusser/volunteerhub/internal/app/system/auditlog"
	"github.com/dalemusser/volunteerhub/internal/app/system/limits"
	"github.com/dalemusser/volunteerhub/internal/app/system/ratelimit"
	"github.com/dalemusser/volunteerhub/internal/app/system/reqlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc, err := buildServices(appCfg, deps, logger)
	if err != nil {
		logger.Error("service wiring failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(reqlog.Middleware(logger))
	r.Use(svc.metrics.Middleware)
	r.Use(auditlog.Middleware(svc.trusted))
	r.Use(limits.Body(limits.MaxJSONBody))
	// Loads the caller into context when a valid bearer token is present.
	r.Use(svc.resolver.LoadActor)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(svc.db, logger)))
	r.Handle("/metrics", svc.metrics.Handler())

	var limit func(http.Handler) http.Handler
	if svc.limiter != nil {
		limit = ratelimit.Middleware(svc.limiter, svc.trusted, time.Minute, logger)
	}

	requestsHandler := requestsfeature.NewHandler(svc.engine, svc.planner, logger)
	r.Mount("/api/requests", requestsfeature.Routes(requestsHandler, limit))

	analyticsHandler := analyticsfeature.NewHandler(svc.reporter, logger)
	r.Mount("/api/analytics", analyticsfeature.Routes(analyticsHandler))

	opsHandler := opsfeature.NewHandler(opsfeature.NewTable(svc.engine, svc.planner, svc.reporter), logger)
	r.Mount("/api/ops", opsfeature.Routes(opsHandler, limit))

	// Audit history lives in Mongo only.
	if svc.events != nil {
		r.Mount("/api/audit", auditfeature.Routes(auditfeature.NewHandler(svc.events, logger)))
	}

	return r, nil
}
