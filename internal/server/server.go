// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

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

	"codeberg.org/oliverandrich/vocabulary-app/internal/config"
	"codeberg.org/oliverandrich/vocabulary-app/internal/database"
	"codeberg.org/oliverandrich/vocabulary-app/internal/handlers"
	"codeberg.org/oliverandrich/vocabulary-app/internal/i18n"
	"codeberg.org/oliverandrich/vocabulary-app/internal/middleware"
	"codeberg.org/oliverandrich/vocabulary-app/internal/repository"
	authsvc "codeberg.org/oliverandrich/vocabulary-app/internal/services/auth"
	"codeberg.org/oliverandrich/vocabulary-app/internal/services/llm"
	"codeberg.org/oliverandrich/vocabulary-app/internal/services/token"
	"codeberg.org/oliverandrich/vocabulary-app/internal/validate"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"postgres", config.IsPostgres(cfg.Database.URL),
	)
	if cfg.Auth.UsesDefaultSecret() {
		slog.Warn("using the default JWT secret, set JWT_SECRET in production")
	}

	// Database (migrations run on open)
	db, err := database.Open(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// Repository
	repo := repository.New(db)

	// Services
	notifier, err := newNotifier(&cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to configure email: %w", err)
	}
	authService := authsvc.NewService(repo, token.NewCodec(cfg.Auth.JWTSecret, time.Now), notifier, authsvc.Options{
		SessionDuration: cfg.Auth.SessionDuration,
		CodeTTL:         cfg.Auth.VerificationCodeTTL,
	})
	assistant := llm.New(llm.Config{
		URL:     cfg.LLM.URL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.Translate.ProviderTimeout,
	})
	chain, closeCache, err := newTranslationChain(ctx, cfg, assistant)
	if err != nil {
		return fmt.Errorf("failed to configure translation: %w", err)
	}
	defer closeCache()

	// Echo
	e := New(cfg, handlers.New(repo, authService, chain, assistant), authService)

	// Expired session sweeper
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go authService.RunSessionCleanup(sweepCtx, cfg.Auth.CleanupInterval)

	// Start server
	return startWithGracefulShutdown(e, cfg)
}

// New builds the echo instance with middleware and routes.
func New(cfg *config.Config, h *handlers.Handlers, validator middleware.TokenValidator) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler
	e.Validator = validate.Echo{}

	setupMiddleware(e, cfg)
	setupRoutes(e, h, validator)

	return e
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	// Channel for server errors
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
