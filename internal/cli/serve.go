package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"soufra_admin/internal/handlers"
	"soufra_admin/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin HTTP API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.ServerPort = port
			}
			log := logger.New("soufra-api", cfg.LogLevel)

			a, err := newApp(cfg, log, appOptions{withSessions: true})
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}
	cmd.Flags().String("port", "", "Override SERVER_PORT.")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestLogger(a.logger.With("http")))

	api := handlers.NewAPIHandler(
		a.auth,
		a.restaurants,
		a.menu,
		a.orders,
		a.carts,
		a.feed,
		a.cfg.LiveRefreshInterval,
		a.logger,
	)
	api.RegisterRoutes(router)

	server := &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.RegisterOnShutdown(api.CloseStreams)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server_started", fmt.Sprintf("Server starting on port %s", a.cfg.ServerPort), map[string]interface{}{
			"port":        a.cfg.ServerPort,
			"feed_driver": a.cfg.FeedDriver,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("server_stopping", "Shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.logger.Info("server_stopped", "Server stopped", nil)
	return nil
}
