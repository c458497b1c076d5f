package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/breezehr/breeze/internal/clock"
	"github.com/breezehr/breeze/internal/config"
	"github.com/breezehr/breeze/internal/membership"
	"github.com/breezehr/breeze/internal/migration"
	"github.com/breezehr/breeze/internal/observability"
	"github.com/breezehr/breeze/internal/organization"
	"github.com/breezehr/breeze/internal/planchange"
	"github.com/breezehr/breeze/internal/provider"
	"github.com/breezehr/breeze/internal/redis"
	"github.com/breezehr/breeze/internal/seat"
	"github.com/breezehr/breeze/internal/server"
	"github.com/breezehr/breeze/internal/subscription"
	"github.com/breezehr/breeze/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "breeze",
		Short:   "Breeze billing engine",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newServeCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the billing API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		fx.Invoke(validateConfig),
		observability.Module,
		db.Module,
		clock.Module,
		redis.Module,

		organization.Module,
		membership.Module,
		provider.Module,
		subscription.Module,
		seat.Module,
		planchange.Module,
		server.Module,
	)
	app.Run()
}

func validateConfig(cfg config.Config) error {
	return cfg.Validate()
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
