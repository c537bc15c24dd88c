package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownGrace = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat backend server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.logger.Sync() }()

			return runServer(cmd.Context(), app)
		},
	}
}

func runServer(ctx context.Context, app *app) error {
	server := &http.Server{
		Addr:              app.cfg.ListenAddr,
		Handler:           app.handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("server listening",
			zap.String("addr", app.cfg.ListenAddr),
			zap.Int("max_sessions", app.cfg.MaxConcurrentSessions),
			zap.Duration("session_ttl", app.cfg.SessionTTL))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
