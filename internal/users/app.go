// Package users initializes and runs the user service: account storage,
// credential verification, and the session-token lifecycle every other
// service depends on.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/shopkeeper/internal/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/users/config"
	"github.com/dmitrijs2005/shopkeeper/internal/users/handlers"
	"github.com/dmitrijs2005/shopkeeper/internal/users/ratelimit"
	"github.com/dmitrijs2005/shopkeeper/internal/users/repositories/repomanager"
	"github.com/dmitrijs2005/shopkeeper/internal/users/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router *gin.Engine
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec, err := auth.NewCodec([]byte(cfg.SecretKey), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	var authOpts []services.AuthOption
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter := ratelimit.NewLoginLimiter(rdb, cfg.LoginAttemptLimit, cfg.LoginAttemptWindow, logger)
		authOpts = append(authOpts, services.WithThrottle(limiter))
	}

	authSvc := services.NewAuthService(db, rm, codec, logger, authOpts...)
	userSvc := services.NewUserService(db, rm, logger)

	router := httpx.NewRouter(logger)
	handlers.RegisterRoutes(router, handlers.NewAuthHandler(authSvc, userSvc, logger), codec)

	return &App{config: cfg, logger: logger, db: db, router: router}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{Addr: app.config.Addr, Handler: app.router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = app.db.Close()
	}()

	app.logger.Info(ctx, "starting user service", "addr", app.config.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
