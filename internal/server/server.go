// Package server wires storage, session issuing and HTTP handlers into a
// runnable application with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/razetka2010/telegram-password-manager/internal/server/config"
	"github.com/razetka2010/telegram-password-manager/internal/server/handlers"
	"github.com/razetka2010/telegram-password-manager/internal/server/middleware"
	"github.com/razetka2010/telegram-password-manager/internal/server/session"
	"github.com/razetka2010/telegram-password-manager/internal/server/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// App holds the assembled server and its owned resources.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	storage *sqlite.Storage
	limiter *middleware.RateLimiter
	srv     *http.Server
}

// NewApp builds the full application from configuration. The returned App
// owns the database handle and rate limiter; Run releases them on exit.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*App, error) {
	if cfg.BotToken == "" && !cfg.InsecureSkipValidation {
		return nil, errors.New("bot token is required (flag -t or env BOT_TOKEN)")
	}

	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("storage init: %w", err)
	}

	sessions := session.NewService(store, []byte(cfg.SessionSigningSecret), cfg.SessionTTL)

	authHandler := handlers.NewAuthHandler(logger, store, store, sessions, handlers.AuthConfig{
		BotToken:               cfg.BotToken,
		MaxInitDataAge:         cfg.MaxInitDataAge,
		DevMode:                cfg.DevMode,
		InsecureSkipValidation: cfg.InsecureSkipValidation,
	})
	passwordsHandler := handlers.NewPasswordsHandler(logger, store, cfg.DevMode)
	healthHandler := handlers.NewHealthHandler(logger, store, version)

	requireSession := middleware.AuthMiddleware(logger, sessions)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth", authHandler.Authenticate)
	mux.Handle("GET /api/passwords", requireSession(http.HandlerFunc(passwordsHandler.List)))
	mux.Handle("POST /api/passwords", requireSession(http.HandlerFunc(passwordsHandler.Create)))
	mux.Handle("PUT /api/passwords/{id}", requireSession(http.HandlerFunc(passwordsHandler.Update)))
	mux.Handle("DELETE /api/passwords/{id}", requireSession(http.HandlerFunc(passwordsHandler.Delete)))
	mux.HandleFunc("GET /api/health", healthHandler.Health)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow, logger)

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(logger, limiter)(handler)
	handler = middleware.CORSMiddleware(logger, cfg.AllowedOrigins, cfg.DevMode)(handler)
	handler = middleware.LoggingMiddleware(logger)(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		storage: store,
		limiter: limiter,
		srv:     srv,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled,
// SIGINT/SIGTERM arrives, or the listener fails.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			slog.String("addr", a.cfg.ListenAddr),
			slog.Bool("dev_mode", a.cfg.DevMode),
		)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.shutdownResources()
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}

	a.shutdownResources()
	return nil
}

func (a *App) shutdownResources() {
	a.limiter.Stop()
	if err := a.storage.Close(); err != nil {
		a.logger.Error("closing storage", slog.String("error", err.Error()))
	}
}
