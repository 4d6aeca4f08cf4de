package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/onlylist"
	"github.com/aretw0/onlylist/internal/cli"
	"github.com/aretw0/onlylist/internal/presentation/tui"
	httpAdapter "github.com/aretw0/onlylist/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the task list as a JSON API.

  GET    /tasks                list with notices
  POST   /tasks                {"text": "..."} appends a task
  PUT    /tasks/{index}        {"text": "..."} replaces a task's text
  POST   /tasks/{index}/toggle flips completion
  DELETE /tasks/{index}        removes a task
  GET    /events               server-sent change events
  GET    /metrics              Prometheus metrics (when metrics are enabled)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, map[string]string{"addr": "http.addr", "metrics": "metrics"})
		if err != nil {
			return err
		}

		streams := httpAdapter.NewStreamManager(nil)
		app, err := cli.Build(cmd.Context(), cfg, streams.Hooks())
		if err != nil {
			return err
		}
		defer app.Close()

		handlerOpts := []httpAdapter.Option{
			httpAdapter.WithStreams(streams),
			httpAdapter.WithVersion(onlylist.Version),
			httpAdapter.WithLogger(app.Logger),
		}
		if app.Registry != nil {
			handlerOpts = append(handlerOpts, httpAdapter.WithMetricsHandler(
				promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}),
			))
		}

		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           httpAdapter.NewHandler(app.Sessions, handlerOpts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			tui.PrintBanner(cmd.ErrOrStderr(), onlylist.Version)
			fmt.Fprintf(cmd.ErrOrStderr(), "Serving %s storage on http://%s\n", cfg.Storage, srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			app.Logger.Info("Shutting down", "signal", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default localhost:8080)")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics at /metrics")
}
