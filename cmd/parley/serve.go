package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/parley-dev/parley"
	"github.com/parley-dev/parley/internal/cli"
	"github.com/parley-dev/parley/internal/logging"
	parleyhttp "github.com/parley-dev/parley/pkg/adapters/http"
	"github.com/parley-dev/parley/pkg/adapters/memory"
	redisstore "github.com/parley-dev/parley/pkg/adapters/redis"
	"github.com/parley-dev/parley/pkg/observability"
	"github.com/parley-dev/parley/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP session server",
	Long:  `Starts the demo engine in server mode, exposing conversation sessions over a JSON API with Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		locale, _ := cmd.Flags().GetString("locale")
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")

		logger := logging.New(slog.LevelInfo)

		var store ports.ContextStore
		if redisAddr != "" {
			store = redisstore.New(redisAddr)
			logger.Info("using redis context store", "addr", redisAddr)
		} else {
			store = memory.NewStore()
			logger.Info("using in-memory context store")
		}

		// One metrics set shared by all sessions, scraped from one registry.
		reg := prometheus.NewRegistry()
		metrics := observability.NewMetrics(reg)

		factory := func(contextJSON string) (parleyhttp.Session, error) {
			return cli.NewDemoEngine(contextJSON, locale, logger, parley.WithMetrics(metrics))
		}

		server := parleyhttp.NewServer(factory, store, logger)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		mux.Handle("/", server.Handler())

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Parley Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Parley Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for the context store (empty for in-memory)")
}
