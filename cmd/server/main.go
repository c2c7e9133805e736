package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/school-management-api/internal/app"
	"github.com/yukikurage/school-management-api/internal/config"
	"github.com/yukikurage/school-management-api/internal/database"
	"github.com/yukikurage/school-management-api/internal/logger"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "School Management API",
		Long:          "REST API for users, courses, tasks and their uploaded files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context())
		},
	})

	return cmd
}

func setup() (*config.Config, *zap.Logger, error) {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.IsRelease())
	if err != nil {
		return nil, nil, fmt.Errorf("cannot initialize zap logger: %w", err)
	}

	if cfg.UsesDefaultSecret() {
		log.Warn("JWT_SECRET is not set, using the insecure default secret")
	}
	return cfg, log, nil
}

func serve(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer log.Sync()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start", zap.Error(err))
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}

func migrate(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer log.Sync()

	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db, log); err != nil {
		log.Error("failed to run migrations", zap.Error(err))
		return err
	}
	return nil
}
