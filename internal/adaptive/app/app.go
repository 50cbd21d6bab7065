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

	httpapi "github.com/aussiebroadwan/adaptive/internal/adaptive/http"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/service"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store/drivers/postgres"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store/drivers/sqlite"
	"github.com/aussiebroadwan/adaptive/pkg/cryptox"
	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
	"github.com/aussiebroadwan/adaptive/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X ...".
var BuildVersion = "v0.1.0"

// Application owns the process: store, codec, services and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	keys   *jwtx.KeyRing
	codec  *jwtx.Codec
	hasher *cryptox.PasswordHasher

	authService      *service.AuthService
	principalService *service.PrincipalService
	bootstrapService *service.BootstrapService
	sessionService   *service.SessionService
	emotionService   *service.EmotionService
	reaper           *service.SessionReaper

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "adaptive",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	app.keys, app.codec, err = InitTokenCodec(cfg, app.logger)
	if err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed handler, mostly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.reaper.Start()

	app.logger.Info("adaptive service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"driver", app.cfg.DatabaseDriver,
		"bootstrap_enabled", app.bootstrapService.Enabled(),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		app.reaper.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, then stops the reaper and closes the
// store. In-flight requests finish against the store before it closes.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down adaptive service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.reaper.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("adaptive service stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(app.cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(app.cfg.DatabaseFile)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initServices() {
	timeout := app.cfg.StoreTimeout

	app.authService = &service.AuthService{
		Store:   app.db,
		Signer:  app.codec,
		Hasher:  app.hasher,
		Timeout: timeout,
	}
	app.principalService = &service.PrincipalService{
		Store:      app.db,
		Hasher:     app.hasher,
		TOTPIssuer: app.cfg.Issuer,
		Timeout:    timeout,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:   app.db,
		Hasher:  app.hasher,
		Token:   app.cfg.BootstrapToken,
		Timeout: timeout,
	}
	app.sessionService = &service.SessionService{
		Store:   app.db,
		Timeout: timeout,
	}
	app.emotionService = &service.EmotionService{
		Store:         app.db,
		HighThreshold: app.cfg.HighThreshold,
		Timeout:       timeout,
	}

	app.reaper = service.NewSessionReaper(
		app.db,
		app.logger,
		app.cfg.HousekeepingEvery,
		app.cfg.SessionIdleTimeout,
	)
	app.reaper.Timeout = timeout
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		&service.IdentityLookup{Store: app.db, Timeout: app.cfg.StoreTimeout},
		app.keys,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.DefaultWindow = app.cfg.StatsDefaultWindow
	router.AuthService = app.authService
	router.PrincipalService = app.principalService
	router.BootstrapService = app.bootstrapService
	router.SessionService = app.sessionService
	router.EmotionService = app.emotionService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
