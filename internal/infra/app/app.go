package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/savoro/catering-auth/internal/core/port"
	"github.com/savoro/catering-auth/internal/infra/config"
	"github.com/savoro/catering-auth/internal/infra/database"
	kafkainfra "github.com/savoro/catering-auth/internal/infra/kafka"
	"github.com/savoro/catering-auth/internal/infra/logger"
	redisinfra "github.com/savoro/catering-auth/internal/infra/redis"
	"github.com/savoro/catering-auth/internal/infra/security"
	"github.com/savoro/catering-auth/internal/repository/memory"
	postgresrepo "github.com/savoro/catering-auth/internal/repository/postgres"
	redisrepo "github.com/savoro/catering-auth/internal/repository/redis"
	"github.com/savoro/catering-auth/internal/transport/http/middleware"
	"github.com/savoro/catering-auth/internal/transport/http/routes"
	"github.com/savoro/catering-auth/internal/usecase"
)

// Application owns the process-level resources and the HTTP server.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
}

// New wires configuration, storage, messaging and services into a runnable
// application.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
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

	if cfg.Postgres.MigrateOnStart {
		if err := database.RunMigrations(database.DSN(cfg.Postgres)); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	var (
		redisClient   *redisinfra.Client
		sessionStore  port.SessionStore
		rememberStore port.RememberTokenStore
		rateStore     port.RateLimitStore
		cacheChecker  routes.CacheChecker
	)
	if cfg.Redis.Enabled {
		redisClient, err = redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		sessionStore = redisrepo.NewSessionRepository(redisClient.Client(), cfg.Redis.SessionPrefix)
		rememberStore = redisrepo.NewRememberTokenRepository(redisClient.Client(), cfg.Redis.RememberTokenPrefix)
		rateStore = redisrepo.NewRateLimitRepository(redisClient.Client(), cfg.Redis.RateLimitPrefix)
		cacheChecker = redisClient
	} else {
		log.Info("redis disabled, using in-process session and rate limit stores")
		sessionStore = memory.NewSessionStore()
		rememberStore = memory.NewRememberTokenStore()
		rateStore = memory.NewRateLimitStore()
	}

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	accounts := postgresrepo.NewAccountRepository(pool)

	passwordRules := []security.PasswordRule{
		security.MinLengthRule(cfg.Password.MinLength),
		security.RequireLetterAndDigitRule(),
	}
	if cfg.Password.MinStrength > 0 {
		passwordRules = append(passwordRules, security.RequirePasswordStrengthRule(cfg.Password.MinStrength))
	}
	validator := usecase.NewAccountValidator(security.NewPasswordValidator(passwordRules...))

	loginLimiter := usecase.NewLoginAttemptLimiter(rateStore, cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginWindow, log)

	authService := usecase.NewAuthService(cfg, accounts, sessionStore, rememberStore, loginLimiter, eventPublisher, log)
	registrationService := usecase.NewRegistrationService(cfg, accounts, sessionStore, validator, eventPublisher, log)

	engine := routes.NewRouter(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: middleware.NewRateLimiter(rateStore, log),
		Database:    pool,
		Cache:       cacheChecker,
		Services: routes.ServiceSet{
			Auth:         authService,
			Registration: registrationService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
	}, nil
}

// Run serves HTTP until the context is canceled, then shuts down gracefully.
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

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting catering auth API",
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
