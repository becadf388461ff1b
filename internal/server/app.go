// Package server initializes and runs the accounts application. It opens the
// database, applies migrations, builds the service layer, and starts the
// HTTP server with graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mediatube/accounts/internal/logging"
	"github.com/mediatube/accounts/internal/server/auth"
	"github.com/mediatube/accounts/internal/server/config"
	"github.com/mediatube/accounts/internal/server/httpapi"
	"github.com/mediatube/accounts/internal/server/repositories"
	"github.com/mediatube/accounts/internal/server/repositories/social"
	"github.com/mediatube/accounts/internal/server/repositories/users"
	"github.com/mediatube/accounts/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := repositories.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repositories.RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	codec := auth.NewCodec(
		[]byte(cfg.AccessTokenSecret), []byte(cfg.RefreshTokenSecret),
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)

	usersRepo := users.NewPostgresRepository(db)
	socialRepo := social.NewPostgresRepository(db)

	srv, err := httpapi.NewServer(cfg, logger,
		services.NewSessionService(usersRepo, codec, logger),
		services.NewAccountService(usersRepo, logger),
		services.NewMediaService(usersRepo, cfg),
		services.NewSocialService(socialRepo))
	if err != nil {
		return nil, err
	}

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
