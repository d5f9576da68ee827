package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/mentorhub/community-platform/services/auth-service/internal/application/auth"
	"github.com/mentorhub/community-platform/services/auth-service/internal/config"
	"github.com/mentorhub/community-platform/services/auth-service/internal/infrastructure/db/postgres"
	"github.com/mentorhub/community-platform/services/auth-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/mentorhub/community-platform/services/auth-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/mentorhub/community-platform/services/auth-service/internal/infrastructure/redis"
	"github.com/mentorhub/community-platform/services/auth-service/internal/infrastructure/security"
	"github.com/mentorhub/community-platform/services/auth-service/internal/logger"
	http_handlers "github.com/mentorhub/community-platform/services/auth-service/internal/transport/http/handlers"
	"github.com/mentorhub/community-platform/services/auth-service/internal/transport/http/middleware"
	"github.com/mentorhub/community-platform/services/auth-service/internal/transport/http/response"
	"github.com/mentorhub/community-platform/services/auth-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string) (DBCloser, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type DBCloser interface {
	Close() error
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface{}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db
	db, err := deps.NewDB(cfg.DBAddr)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	// 2) user repo
	sqlDB, ok := db.(*sql.DB)
	if !ok {
		runCleanup(cleanupFns)
		return nil, nil, errors.New("bootstrap: NewDB did not return *sql.DB")
	}

	userRepo := postgres.NewUserRepo(sqlDB)

	// 3) redis (session store; memory fallback outside prod)
	var redisCli RedisClient
	if deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			if cfg.Env != "dev" {
				runCleanup(cleanupFns)
				_ = c.Close()
				return nil, nil, err
			}
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-memory session store")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	var sessionStore auth.SessionStore
	if redisCli != nil {
		sessionStore = redis.NewSessionStore(redisCli.(*redis.Client))
	} else {
		sessionStore = memory.NewSessionStore()
	}

	// 4) publisher
	pub, err := deps.NewPublisher(cfg.RabbitURL, cfg.EventExchange)
	if err != nil {
		if cfg.Env == "dev" {
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
			pub = memory.NewNoopPublisher()
		} else {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}

	if c, ok := pub.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	// 5) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer)

	// 6) service
	authSvc := auth.NewService(
		userRepo,
		hasher,
		signer,
		sessionStore,
		pub.(auth.EventPublisher),
		auth.Config{
			AccessTTL:             cfg.AccessTokenTTL,
			RefreshTTL:            cfg.RefreshTokenTTL,
			PasswordResetBaseURL:  cfg.PasswordResetBaseURL,
			PasswordResetTokenTTL: cfg.PasswordResetTokenTTL,
		},
	)

	authSvc = authSvc.WithAudit(func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	})

	// 7) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc, cfg.RefreshTokenTTL, cfg.SecureCookies)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	authMW := middleware.Auth(signer, response.WriteError)
	modMW := middleware.RequireMentor(response.WriteError)
	adminMW := middleware.RequireAdmin(response.WriteError)

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:  healthH,
		Auth:    authH,
		AuthMW:  authMW,
		ModMW:   modMW,
		AdminMW: adminMW,
		Base:    []func(http.Handler) http.Handler{middleware.RequestID},
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB: func(addr string) (DBCloser, error) {
			return config.NewDB(addr)
		},
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: func(d router.Deps) (http.Handler, error) {
			return router.New(d)
		},
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
