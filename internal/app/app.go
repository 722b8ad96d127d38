// Package app bootstraps the contact-form backend.
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

	"github.com/fisacferrandez/contactform/internal/config"
	"github.com/fisacferrandez/contactform/internal/handlers"
	"github.com/fisacferrandez/contactform/internal/httpserver"
	"github.com/fisacferrandez/contactform/internal/logging"
	"github.com/fisacferrandez/contactform/internal/middleware"
)

// Run dispatches the requested subcommand.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve, migrate, or archive")
	}

	switch args[0] {
	case "serve":
		return serve(ctx)
	case "migrate":
		return runMigrations(ctx, args[1:])
	case "archive":
		return runArchive(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logging.Level(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	deps, cleanup, err := buildDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, deps)

	flood := middleware.NewFloodLimiter(cfg.FloodRequests, cfg.FloodWindow, cfg.FloodBurst, cfg.LockoutWindow)
	handler := middleware.RequestLogger(logger)(
		middleware.SecurityHeaders(
			flood.Guard(mux),
		),
	)

	srv := httpserver.New(cfg.AppPort, handler)

	logger.Info("starting http server", "port", cfg.AppPort, "rate_store", cfg.RateStore, "csrf_required", cfg.CSRFRequired)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
