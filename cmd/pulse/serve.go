package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulsehq/pulse/internal/catalog"
	"github.com/pulsehq/pulse/internal/orchestrator"
	"github.com/pulsehq/pulse/internal/server"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the pulse HTTP server.

Endpoints include the WHOOP webhook (/webhook/whoop/{tenant}), the direct
process API (/api/process), and read-only queries over each tenant's
context store. Tenants are resolved from the X-Tenant-ID header or the
request's subdomain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		listen := serveListen
		if listen == "" {
			listen = cfg.Listen
		}

		cat, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("loading service catalog: %w", err)
		}

		registry := orchestrator.NewRegistry(cfg.LLM.Generator())
		srv := &http.Server{
			Addr: listen,
			Handler: server.New(registry, cat, server.Config{
				RatePerSecond: cfg.RateLimit.PerSecond,
				RateBurst:     cfg.RateLimit.Burst,
			}),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Printf("pulse: listening on %s", listen)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		log.Printf("pulse: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
