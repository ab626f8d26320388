package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/config"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/transport/http/handlers"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/transport/http/middleware"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Sessions      *usecase.SessionService
	PasswordReset *usecase.PasswordResetService
	Accounts      *usecase.AccountService
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(allowedOrigins(deps.Config)))

	if metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{}); err == nil {
		r.Use(metrics.Handler())
	} else if deps.Logger != nil {
		deps.Logger.Warn("http metrics disabled", zap.Error(err))
	}

	probes := map[string]handlers.ReadinessProbe{}
	if deps.Database != nil {
		probes["database"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		probes["redis"] = deps.Cache.HealthCheck
	}

	healthHandler := handlers.NewHealthHandler(probes)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	isDev := !deps.Config.App.IsProduction()

	authGroup := r.Group("/api/auth")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Sessions, deps.Logger, handlers.WithDevMode(isDev))
		authHandler.RegisterRoutes(authGroup)

		passwordHandler := handlers.NewPasswordHandler(deps.Services.PasswordReset, deps.Logger, isDev)
		passwordHandler.RegisterRoutes(authGroup, buildForgotPasswordMiddlewares(deps)...)

		tokenHandler := handlers.NewTokenHandler(deps.Services.Sessions)
		tokenHandler.RegisterRoutes(authGroup)
	}

	internalGroup := r.Group("/internal")
	internalGroup.Use(middleware.InternalKey(deps.Config.Internal.APIKey))
	{
		accountHandler := handlers.NewAccountHandler(deps.Services.Accounts, deps.Logger, isDev)
		accountHandler.RegisterRoutes(internalGroup)
	}

	return r
}

func allowedOrigins(cfg *config.AppConfig) []string {
	if cfg != nil && cfg.App.FrontendURL != "" {
		return []string{cfg.App.FrontendURL}
	}
	return []string{"*"}
}

func buildForgotPasswordMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.ForgotPasswordMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Hour
	}

	rule := middleware.RateLimitRule{
		Name:       "forgot_password_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
