// internal/app/bootstrap/services.go
package bootstrap

import (
	"time"

	auditfeature "github.com/dalemusser/volunteerhub/internal/app/features/auditlog"
	"github.com/dalemusser/volunteerhub/internal/app/features/health"
	"github.com/dalemusser/volunteerhub/internal/app/lifecycle"
	"github.com/dalemusser/volunteerhub/internal/app/store/audit"
	chatstore "github.com/dalemusser/volunteerhub/internal/app/store/chat"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/analyticsqueries"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/requestqueries"
	requeststore "github.com/dalemusser/volunteerhub/internal/app/store/requests"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/app/system/auditlog"
	"github.com/dalemusser/volunteerhub/internal/app/system/metrics"
	"github.com/dalemusser/volunteerhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// requestBackend is what the engine, planner and reporter need from a
// request store. Both the Mongo store and MemStore satisfy it.
type requestBackend interface {
	lifecycle.Store
	requestqueries.Source
	analyticsqueries.RequestCounter
}

type userBackend interface {
	analyticsqueries.UserDirectory
	actor.Fetcher
}

// services is the wired application graph BuildHandler mounts.
type services struct {
	engine   *lifecycle.Engine
	planner  *requestqueries.Planner
	reporter *analyticsqueries.Reporter
	resolver *actor.Resolver
	metrics  *metrics.Prom

	db      health.Pinger       // nil for the memory backend
	events  auditfeature.Reader // nil for the memory backend
	limiter ratelimit.Allower   // nil when rate limiting is off
	trusted *ratelimit.TrustedProxies
}

func buildServices(appCfg AppConfig, deps DBDeps, logger *zap.Logger) (*services, error) {
	var (
		reqs    requestBackend
		chat    lifecycle.ChatLog
		users   userBackend
		perUser analyticsqueries.PerUserFunc
		sink    auditlog.Sink
		svc     = &services{metrics: metrics.New()}
	)

	if deps.Memory != nil {
		reqs, chat, users = deps.Memory.Requests, deps.Memory.Chat, deps.Memory.Users
	} else {
		db := deps.MongoDatabase
		reqs, chat, users = requeststore.New(db), chatstore.New(db), userstore.New(db)
		perUser = analyticsqueries.MongoRequestsPerUser(db)
		events := audit.New(db)
		sink, svc.events = events, events
		svc.db = deps.MongoClient
	}

	policy := appCfg.Policy()
	auditCfg := auditlog.Config{Lifecycle: appCfg.AuditLog, Chat: appCfg.AuditLog}

	svc.engine = lifecycle.New(lifecycle.Config{
		Store:             reqs,
		Chat:              chat,
		Users:             users,
		Policy:            policy,
		Audit:             auditlog.New(sink, logger, auditCfg),
		Metrics:           svc.metrics,
		Logger:            logger,
		ValidateLocations: appCfg.ValidateLocations,
	})
	svc.planner = requestqueries.New(reqs, users, appCfg.DefaultPageLimit)
	svc.reporter = analyticsqueries.New(reqs, users, perUser, policy)

	var fetcher actor.Fetcher
	if appCfg.ActorRefresh && deps.Memory == nil {
		fetcher = users
	}
	resolver, err := actor.NewResolver(appCfg.JWTSecret, fetcher, logger)
	if err != nil {
		return nil, err
	}
	svc.resolver = resolver

	trusted, err := ratelimit.ParseTrustedProxies(appCfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	svc.trusted = trusted

	if appCfg.RateLimitPerMinute > 0 {
		if deps.Redis != nil {
			l, err := ratelimit.NewRedisFixedWindowLimiter(deps.Redis, "volunteerhub:ratelimit", appCfg.RateLimitPerMinute, time.Minute, logger)
			if err != nil {
				return nil, err
			}
			svc.limiter = l
		} else {
			svc.limiter = ratelimit.New(deps.Background, appCfg.RateLimitPerMinute, time.Minute)
		}
	}
	return svc, nil
}
