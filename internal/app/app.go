// Package app wires configuration, storage, services, and HTTP routing into
// a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/restbase/internal/blob"
	"github.com/simp-lee/restbase/internal/config"
	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/middleware"
	"github.com/simp-lee/restbase/internal/module/auth"
	"github.com/simp-lee/restbase/internal/module/emailtemplate"
	"github.com/simp-lee/restbase/internal/module/file"
	"github.com/simp-lee/restbase/internal/module/notification"
	"github.com/simp-lee/restbase/internal/module/sessions"
	"github.com/simp-lee/restbase/internal/module/user"
	"github.com/simp-lee/restbase/internal/session"
	"github.com/simp-lee/restbase/internal/store"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine  *gin.Engine
	db      *gorm.DB
	redis   redis.UniversalClient
	logger  *logger.Logger
	limiter *middleware.RateLimiter
	cfg     *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the database, the Redis session store, blob storage,
// record stores, services, handlers, middleware, and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	// 1. Setup logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Setup database with connection pool configuration.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", slog.Any("error", err))
		}
	}()

	// 3. Setup the Redis connection backing the session store.
	rdb, err := config.SetupRedis(&cfg.Redis, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup redis: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", slog.Any("error", err))
		}
	}()

	// 4. AutoMigrate in debug mode only.
	if cfg.Server.Mode == gin.DebugMode {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.EmailTemplate{},
			&domain.File{},
			&domain.Notification{},
		); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed")
	}

	// 5. Record stores, session store, and blob storage.
	users := store.New[domain.User](db, domain.UserDescriptor())
	templates := store.New[domain.EmailTemplate](db, domain.EmailTemplateDescriptor())
	files := store.New[domain.File](db, domain.FileDescriptor())
	notifications := store.New[domain.Notification](db, domain.NotificationDescriptor())

	tokenExpiry := cfg.Auth.TokenExpiryDuration()
	sessionStore := session.NewStore(rdb, tokenExpiry, log.Logger)

	blobs, err := blob.NewDiskStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("setup blob storage: %w", err)
	}

	// 6. Manual dependency injection: store → service → handler → module.
	authSvc := auth.NewService(cfg.Auth.JWTSecret, users, sessionStore, tokenExpiry, log.Logger)
	userSvc := user.NewService(users, sessionStore)
	fileSvc := file.NewService(files, blobs, log.Logger)

	guard := auth.Middleware(authSvc)
	adminOnly := auth.RequireRole(domain.RoleAdmin)

	modules := []Module{
		auth.NewModule(auth.NewHandler(authSvc), guard),
		user.NewModule(user.NewHandler(userSvc), guard),
		sessions.NewModule(sessions.NewHandler(sessionStore), guard, adminOnly),
		emailtemplate.NewModule(emailtemplate.NewHandler(templates), guard),
		notification.NewModule(notification.NewHandler(notifications), guard),
		file.NewModule(file.NewHandler(fileSvc), guard),
	}

	// 7. Create Gin engine with custom middleware (not gin.Default()).
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	// In release mode, when no allowlist is configured, default to deny
	// cross-origin requests.
	corsConfig := resolveCORSConfig(cfg.Server.Mode, &cfg.Server.CORS)

	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: false,
		}),
		middleware.Logger(log.Logger),
		middleware.CORSWithConfig(corsConfig),
		middleware.Secure(),
	)
	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
		engine.Use(limiter.Middleware())
	}

	// 8. Register all routes.
	if err := RegisterRoutes(engine, &RouteDeps{
		Modules: modules,
		DB:      db,
		Redis:   rdb,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine:  engine,
		db:      db,
		redis:   rdb,
		logger:  log,
		limiter: limiter,
		cfg:     cfg,
	}, nil
}

// resolveCORSConfig overlays the configured CORS settings on the defaults.
func resolveCORSConfig(mode string, cfg *config.CORSConfig) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()

	if len(cfg.AllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.AllowMethods
	}
	if len(cfg.AllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.AllowHeaders
	}
	corsConfig.AllowCredentials = cfg.AllowCredentials
	if cfg.MaxAge != "" {
		if d, err := time.ParseDuration(cfg.MaxAge); err == nil {
			corsConfig.MaxAge = fmt.Sprintf("%d", int(d.Seconds()))
		}
	}

	if len(cfg.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowOrigins
		return corsConfig
	}

	if mode == gin.ReleaseMode {
		corsConfig.AllowOrigins = []string{}
	}

	return corsConfig
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It performs graceful shutdown with a 5-second timeout and closes the
// database and Redis connections.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	// Listen for SIGINT / SIGTERM.
	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		if a.logger != nil {
			a.logger.Info("server started", slog.String("addr", addr))
		} else {
			slog.Info("server started", slog.String("addr", addr))
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		if a.logger != nil {
			a.logger.Info("shutdown signal received")
		} else {
			slog.Info("shutdown signal received")
		}
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		// Graceful shutdown with 5-second deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			if a.logger != nil {
				a.logger.Error("server shutdown error", slog.Any("error", err))
			} else {
				slog.Error("server shutdown error", slog.Any("error", err))
			}
		}
	}

	// Stop the rate limiter's eviction sweep.
	if a.limiter != nil {
		a.limiter.Stop()
	}

	// Close database connection.
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				if a.logger != nil {
					a.logger.Error("database close error", slog.Any("error", err))
				} else {
					slog.Error("database close error", slog.Any("error", err))
				}
			} else if a.logger != nil {
				a.logger.Info("database connection closed")
			}
		}
	}

	// Close Redis connection.
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			if a.logger != nil {
				a.logger.Error("redis close error", slog.Any("error", err))
			} else {
				slog.Error("redis close error", slog.Any("error", err))
			}
		} else if a.logger != nil {
			a.logger.Info("redis connection closed")
		}
	}

	if a.logger != nil {
		a.logger.Info("server stopped")
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	} else {
		slog.Info("server stopped")
	}

	if runErr != nil {
		return runErr
	}

	return nil
}
