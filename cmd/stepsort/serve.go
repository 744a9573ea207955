package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/stepsort"
	"github.com/aretw0/stepsort/internal/cli"
	"github.com/aretw0/stepsort/internal/logging"
	httpAdapter "github.com/aretw0/stepsort/pkg/adapters/http"
	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serves step-by-step sorting sessions as a JSON API, with SSE progress streams and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		logger, err := logging.FromLevel(cfg.LogLevel)
		if err != nil {
			return err
		}

		var (
			reg     *prometheus.Registry
			hooks   domain.LifecycleHooks
			handler []httpAdapter.Option
		)
		if cfg.Server.Metrics {
			reg = prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks = observability.NewMetrics(reg).Hooks()
			handler = append(handler, httpAdapter.WithGatherer(reg))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var registerer prometheus.Registerer
		if reg != nil {
			registerer = reg
		}
		mgr, closeStore, err := cli.BuildManager(ctx, cfg, logger, registerer, hooks)
		if err != nil {
			return err
		}
		defer closeStore()

		handler = append(handler, httpAdapter.WithLogger(logger), httpAdapter.WithVersion(stepsort.Version))
		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: httpAdapter.NewHandler(mgr, handler...),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting http server", "addr", srv.Addr, "store", cfg.Store.Backend)
			fmt.Fprintf(cmd.OutOrStdout(), "Starting stepsort server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "stepsort server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
}
