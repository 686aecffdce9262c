package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/ctxstore"
	"github.com/aretw0/ctxstore/internal/config"
	"github.com/aretw0/ctxstore/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ctxstore",
	Short: "ctxstore is a session-context store for directory-scoped histories",
	Long: `ctxstore keeps per-directory session histories in a key-value backend
and exposes them to AI agents over the Model Context Protocol, with a
REST mirror for everything else.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis endpoint, e.g. redis://localhost:6379/0")
	rootCmd.PersistentFlags().String("store", "", "Store backend: redis or memory")
}

// loadConfig resolves the effective configuration: defaults, config
// file, environment, then command-line flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if url, _ := cmd.Flags().GetString("redis-url"); url != "" {
		cfg.Redis.URL = url
	}
	if store, _ := cmd.Flags().GetString("store"); store != "" {
		cfg.Store = store
	}
	return cfg, nil
}

// buildService wires the store and registry from the effective config
// and installs the default logger. Callers must Close the service.
func buildService(cmd *cobra.Command) (*ctxstore.Service, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	slog.SetDefault(logging.New(logging.ParseLevel(cfg.LogLevel)))

	svc, err := ctxstore.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}
