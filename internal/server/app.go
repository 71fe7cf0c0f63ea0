// Package server initializes and runs the vault server: it opens the
// database, runs migrations, wires the services into the HTTP router, and
// handles graceful shutdown.
package server

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

	"github.com/passvault-io/passvault/internal/logging"
	"github.com/passvault-io/passvault/internal/server/config"
	"github.com/passvault-io/passvault/internal/server/httpapi"
	"github.com/passvault-io/passvault/internal/server/repositories/repomanager"
	"github.com/passvault-io/passvault/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config        *config.Config
	logger        logging.Logger
	repos         repomanager.RepositoryManager
	userService   *services.UserService
	recordService *services.RecordService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	rm, err := repomanager.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &App{
		config:        cfg,
		logger:        logger,
		repos:         rm,
		userService:   services.NewUserService(rm.Users()),
		recordService: services.NewRecordService(rm.Records()),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the HTTP API until ctx is canceled or a termination signal
// arrives, then drains in-flight requests and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		JWTSecret:      []byte(app.config.SecretKey),
		TokenValidity:  app.config.TokenValidityDuration,
		AllowedOrigins: app.config.AllowedOrigins,
		RequestTimeout: app.config.RequestTimeout,
	}, app.logger, app.userService, app.recordService)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}

	if err := app.repos.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}

	return nil
}
