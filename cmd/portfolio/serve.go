package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio/internal/db"
	"github.com/jonathan/portfolio/internal/server"
)

func newServeCmd(load configLoader) *cobra.Command {
	var (
		port    int
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server exposing the portfolio resources, the contact and admin endpoints, metrics and the rendered page.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if migrate {
				if err := runMigrations(ctx, cfg.Database.URL, logger); err != nil {
					return err
				}
			}

			srv, err := server.New(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides config)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply database migrations before serving")
	return cmd
}

func runMigrations(ctx context.Context, databaseURL string, logger *zap.Logger) error {
	if databaseURL == "" {
		return fmt.Errorf("--migrate requires database.url (or DATABASE_URL)")
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}
	logger.Info("database migrations applied")
	return nil
}
