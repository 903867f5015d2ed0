// Package server initializes and runs the auth application: it opens the
// database, applies migrations, wires the services and the HTTP API, and
// handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kids-learning/auth-service/internal/logging"
	"github.com/kids-learning/auth-service/internal/server/auth"
	"github.com/kids-learning/auth-service/internal/server/config"
	"github.com/kids-learning/auth-service/internal/server/httpapi"
	"github.com/kids-learning/auth-service/internal/server/repositories/repomanager"
	"github.com/kids-learning/auth-service/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	var verifyKeys [][]byte
	for _, key := range cfg.JWTSecondaryKeys {
		verifyKeys = append(verifyKeys, []byte(key))
	}
	tokens := auth.NewManager([]byte(cfg.JWTSecret), verifyKeys, cfg.TokenTTL)

	passwords, err := auth.NewPasswordHasher(cfg.BcryptCostGuardian, cfg.BcryptCostDependent)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("password hasher init error: %w", err)
	}

	authService := services.NewAuthService(db, rm, tokens, passwords)
	handler := httpapi.NewHandler(authService, logger)
	server := httpapi.NewServer(cfg.Address, logger, handler, tokens)

	app := &App{config: cfg, logger: logger, db: db, server: server}

	if err := rm.RunMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
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

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
