// Package main provides the entry point for the portfolio API server and CLI tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/logging"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio content API server and tools",
		Long:          "Serves the portfolio content API and page, imports content into PostgreSQL, and previews the page as a client would load it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")

	loadConfig := func() (*config.Config, *zap.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create logger: %w", err)
		}
		return cfg, logger, nil
	}

	root.AddCommand(
		newServeCmd(loadConfig),
		newSeedCmd(loadConfig),
		newValidateCmd(),
		newPreviewCmd(loadConfig),
		newIntroCmd(loadConfig),
		newHashPasswordCmd(),
	)
	return root
}

// configLoader resolves the --config flag once flags are parsed.
type configLoader func() (*config.Config, *zap.Logger, error)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
