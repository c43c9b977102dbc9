package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/teamvote/internal/teamvote/http"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store/drivers/sqlite"
	"github.com/aussiebroadwan/teamvote/pkg/cryptox"
	"github.com/aussiebroadwan/teamvote/pkg/jwtx"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the teamvote service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db          store.Store
	sessionKeys *SessionKeys
	adminGuard  *service.AdminGuard

	// Services
	tokenService        *service.TokenService
	sessionService      *service.SessionService
	membershipService   *service.MembershipService
	votingService       *service.VotingService
	teamService         *service.TeamService
	adminService        *service.AdminService
	profileService      *service.ProfileService
	housekeepingService *service.HousekeepingService
	housekeepingStarted bool

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "teamvote",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// The pepper feeds every fingerprint and hash, load it first
	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := InitSessionKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.sessionKeys = keys

	adminHash, err := AdminCredentialHash(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.adminGuard = service.NewAdminGuard(adminHash)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()
	app.housekeepingStarted = true

	serverErrors := make(chan error, 1)
	go func() {
		app.logger.Info("teamvote service starting",
			"port", app.cfg.Port,
			"env", app.cfg.Env,
			"version", BuildVersion,
			"admin_enabled", app.adminGuard.Enabled(),
		)
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down teamvote service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.housekeepingStarted {
		app.housekeepingService.Stop()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("teamvote service stopped")
	return nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "path", app.cfg.DatabaseFile)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Store: app.db,
		TTL:   app.cfg.RegistrationTokenTTL,
	}
	app.sessionService = &service.SessionService{
		Store:    app.db,
		Signer:   app.sessionKeys.Signer,
		Verifier: jwtx.NewVerifierEdDSA(app.sessionKeys.KeySet, app.cfg.Issuer),
		Issuer:   app.cfg.Issuer,
		TTL:      app.cfg.SessionTTL,
	}
	app.membershipService = &service.MembershipService{Store: app.db}
	app.votingService = &service.VotingService{Store: app.db}
	app.teamService = &service.TeamService{Store: app.db}
	app.adminService = &service.AdminService{Store: app.db}
	app.profileService = &service.ProfileService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.sessionKeys.KeySet,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Cookie = httpapi.SessionCookie{Secure: app.cfg.CookieSecure}
	router.AdminGuard = app.adminGuard
	router.TokenService = app.tokenService
	router.SessionService = app.sessionService
	router.MembershipService = app.membershipService
	router.VotingService = app.votingService
	router.TeamService = app.teamService
	router.AdminService = app.adminService
	router.ProfileService = app.profileService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
