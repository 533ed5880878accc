package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/savoro/catering-auth/internal/infra/config"
	"github.com/savoro/catering-auth/internal/transport/http/handlers"
	"github.com/savoro/catering-auth/internal/transport/http/middleware"
	"github.com/savoro/catering-auth/internal/usecase"
)

// ServiceSet aggregates the application services the HTTP layer needs.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Registration *usecase.RegistrationService
}

// DatabaseChecker reports database connectivity for readiness probes.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker reports cache connectivity for readiness probes.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies wires the router with its collaborators.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// NewRouter assembles the Gin engine with middleware and API routes.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Config != nil && len(deps.Config.App.CORSOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.App.CORSOrigins))
	}

	if metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{}); err != nil {
		if deps.Logger != nil {
			deps.Logger.Warn("http metrics disabled", zap.Error(err))
		}
	} else {
		r.Use(metrics.Handler())
	}

	var healthOptions []handlers.HealthOption
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("cache", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sessionCfg := config.SessionSettings{}
	if deps.Config != nil {
		sessionCfg = deps.Config.Session
	}

	authHandler := handlers.NewAuthHandler(deps.Services.Auth, sessionCfg, deps.Logger)
	accountHandler := handlers.NewAccountHandler(deps.Services.Registration, sessionCfg, deps.Logger)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(buildLoginRateLimit(deps)...)
		auth.POST("", authHandler.Handle)
		auth.GET("", authHandler.Handle)

		api.POST("/account", accountHandler.Handle)
		api.GET("/account", accountHandler.Handle)
	}

	return r
}

// buildLoginRateLimit applies the per-IP limit to login attempts only; the
// other auth actions pass through unthrottled.
func buildLoginRateLimit(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	cfg := deps.Config.RateLimit
	if cfg.IPMaxAttempts <= 0 || cfg.IPWindow <= 0 {
		return nil
	}

	clientIP := middleware.ClientIPIdentifier()
	rule := middleware.RateLimitRule{
		Name:   "auth_login_ip",
		Limit:  cfg.IPMaxAttempts,
		Window: cfg.IPWindow,
		Identifier: func(c *gin.Context) (string, bool) {
			action := c.Query("action")
			if action == "" {
				action = c.PostForm("action")
			}
			if action != "" && action != "login" {
				return "", false
			}
			return clientIP(c)
		},
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
