package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/port"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/config"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/database"
	kafkainfra "github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/kafka"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/logger"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/notifier"
	redisinfra "github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/redis"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/security"
	postgresrepo "github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/repository/postgres"
	redisrepo "github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/repository/redis"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/transport/http/middleware"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/transport/http/routes"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/usecase"
)

const expiredSweepInterval = time.Hour

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
	tokens port.RefreshTokenRepository
	resets port.ResetRequestRepository
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	codec, err := security.NewTokenCodec(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.App.Name,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("init token codec: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	accountRepo := postgresrepo.NewAccountRepository(pool)
	tokenRepo := postgresrepo.NewRefreshTokenRepository(pool)
	resetRepo := postgresrepo.NewResetRequestRepository(pool)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	var resetNotifier port.Notifier
	if cfg.SMTP.Host != "" {
		resetNotifier = notifier.NewSMTPNotifier(cfg.SMTP, log)
	} else {
		log.Info("smtp not configured, reset links are logged only")
		resetNotifier = notifier.NewNoopNotifier(log)
	}

	passwordValidator := security.DefaultPasswordValidator()

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Hour
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		TTL: rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	sessionService := usecase.NewSessionService(accountRepo, tokenRepo, codec, passwordValidator, eventPublisher, log)
	resetService := usecase.NewPasswordResetService(
		accountRepo,
		tokenRepo,
		resetRepo,
		resetNotifier,
		eventPublisher,
		passwordValidator,
		cfg.App.FrontendURL,
		cfg.Reset.TokenTTL,
		log,
	)
	accountService := usecase.NewAccountService(accountRepo, tokenRepo, eventPublisher, log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Sessions:      sessionService,
			PasswordReset: resetService,
			Accounts:      accountService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
		tokens: tokenRepo,
		resets: resetRepo,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	go a.sweepExpired(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting auth API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

// sweepExpired periodically prunes expired refresh tokens and reset requests.
// Expiry is always enforced at read time as well, so a missed sweep only
// leaves dead rows behind.
func (a *Application) sweepExpired(ctx context.Context) {
	ticker := time.NewTicker(expiredSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := time.Now().UTC()
		sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)

		if removed, err := a.tokens.DeleteExpired(sweepCtx, now); err != nil {
			a.logger.Warn("refresh token sweep failed", zap.Error(err))
		} else if removed > 0 {
			a.logger.Info("pruned expired refresh tokens", zap.Int64("removed", removed))
		}

		if removed, err := a.resets.DeleteExpired(sweepCtx, now); err != nil {
			a.logger.Warn("reset request sweep failed", zap.Error(err))
		} else if removed > 0 {
			a.logger.Info("pruned expired reset requests", zap.Int64("removed", removed))
		}

		cancel()
	}
}
