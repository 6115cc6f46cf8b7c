package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/shopkeeper/internal/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/gateway/config"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// publicPaths lists the endpoints reachable without a token: the ones a
// client needs before it has one.
var publicPaths = map[string]bool{
	"/api/auth/login":    true,
	"/api/auth/register": true,
	"/api/auth/refresh":  true,
}

func isPublic(method, path string) bool {
	return publicPaths[path]
}

type App struct {
	config *config.Config
	logger logging.Logger
	router *gin.Engine
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger()

	verifier, err := auth.NewVerifier([]byte(cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("token verifier init error: %w", err)
	}

	proxy := NewProxy(logger)
	mounts := []struct {
		prefix string
		target string
	}{
		{"/api/auth", cfg.UsersURL},
		{"/api/orders", cfg.OrdersURL},
		{"/api/catalogue", cfg.CatalogueURL},
		{"/api/reviews", cfg.ReviewsURL},
	}
	for _, m := range mounts {
		if err := proxy.Mount(m.prefix, m.target); err != nil {
			return nil, err
		}
	}

	router := httpx.NewRouter(logger)
	router.Use(httpx.GatewayFilter(verifier, isPublic))
	router.NoRoute(proxy.Handler())

	return &App{config: cfg, logger: logger, router: router}, nil
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
	}()

	app.logger.Info(ctx, "starting gateway", "addr", app.config.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
