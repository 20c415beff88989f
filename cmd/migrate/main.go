package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"auctiontracker/internal/config"
	"auctiontracker/internal/logger"
)

const migrationsSource = "file://migrations"

func main() {
	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the PostgreSQL schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(upCmd(), downCmd(), versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withMigrate loads the configuration, opens a migrate instance and runs fn.
func withMigrate(fn func(m *migrate.Migrate) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	m, err := migrate.New(migrationsSource, cfg.PostgresURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	return fn(m)
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrate(func(m *migrate.Migrate) error {
				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migration up failed: %w", err)
				}
				logger.Get().Info("Migrations applied successfully")
				return nil
			})
		},
	}
}

func downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down [N]",
		Short: "Roll back the last N migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				steps = n
			}
			return withMigrate(func(m *migrate.Migrate) error {
				if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migration down failed: %w", err)
				}
				logger.Get().Infof("Rolled back %d migration(s)", steps)
				return nil
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrate(func(m *migrate.Migrate) error {
				version, dirty, err := m.Version()
				if err != nil {
					return fmt.Errorf("failed to get version: %w", err)
				}
				logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)
				return nil
			})
		},
	}
}
