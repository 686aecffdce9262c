package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aretw0/ctxstore/internal/presentation/tui"
	httpadapter "github.com/aretw0/ctxstore/pkg/adapters/http"
	"github.com/aretw0/ctxstore/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST server",
	Long: `Starts the session API over HTTP: the four session operations,
/healthz, and prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		svc, cfg, err := buildService(cmd)
		if err != nil {
			fmt.Printf("Error initializing ctxstore: %v\n", err)
			os.Exit(1)
		}
		defer svc.Close()

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		handler := httpadapter.NewHandler(svc.Registry, svc.Store, observability.NewMetrics())

		srv := &http.Server{
			Addr:    ":" + strconv.Itoa(port),
			Handler: handler,
		}

		tui.PrintBanner()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting ctxstore server on %s\n", srv.Addr)
			fmt.Printf("Store backend: %s\n", cfg.Store)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("ctxstore server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
