// Package catalogue initializes and runs the catalogue service.
package catalogue

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

	"github.com/dmitrijs2005/shopkeeper/internal/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/config"
	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/handlers"
	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/repositories/repomanager"
	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/services"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
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

	verifier, err := auth.NewVerifier([]byte(cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("token verifier init error: %w", err)
	}

	catalogueSvc := services.NewCatalogueService(db, rm, logger)

	router := httpx.NewRouter(logger)
	handlers.RegisterRoutes(router, handlers.NewCatalogueHandler(catalogueSvc, logger), verifier)

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

	app.logger.Info(ctx, "starting catalogue service", "addr", app.config.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
