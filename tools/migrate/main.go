package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/orgball2608/fawazbook/internal/fixture"
	_ "github.com/orgball2608/fawazbook/internal/migrations"
	"github.com/orgball2608/fawazbook/pkg/config"
	"github.com/orgball2608/fawazbook/pkg/logger"
	"github.com/orgball2608/fawazbook/pkg/pgx"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the fixture database schema and contents",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dir, "dir", "internal/migrations", "directory holding the migrations")

	withDB := func(fn func(db *sql.DB) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := goose.SetDialect("postgres"); err != nil {
				return fmt.Errorf("failed to set dialect: %w", err)
			}
			db, err := sql.Open("postgres", cfg.GetDSN())
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			fmt.Printf("Running migrations from: %s\n", dir)
			return fn(db)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withDB(func(db *sql.DB) error {
				if err := goose.Up(db, dir); err != nil {
					return fmt.Errorf("failed to run migrations: %w", err)
				}
				fmt.Println("Migrations applied successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: withDB(func(db *sql.DB) error {
				if err := goose.Down(db, dir); err != nil {
					return fmt.Errorf("failed to rollback migration: %w", err)
				}
				fmt.Println("Migration rollback successful")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the migration status",
			RunE: withDB(func(db *sql.DB) error {
				return goose.Status(db, dir)
			}),
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Roll back every migration",
			RunE: withDB(func(db *sql.DB) error {
				if err := goose.Reset(db, dir); err != nil {
					return fmt.Errorf("failed to reset migrations: %w", err)
				}
				fmt.Println("All migrations have been rolled back")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a new Go migration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Printf("Creating migration in: %s\n", dir)
				if err := goose.Create(nil, dir, args[0], "go"); err != nil {
					return fmt.Errorf("failed to create migration: %w", err)
				}
				return nil
			},
		},
		newSeedCmd(),
	)
	return root
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the fixture tables with the embedded sample data or a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := logger.New(logger.Opts{Env: cfg.App.Env}).WithComponent("Migrate")

			snap, err := fixture.LoadEmbedded()
			if file != "" {
				snap, err = fixture.LoadFile(file)
			}
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			pool, err := pgx.Connect(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := fixture.Seed(ctx, pool, snap); err != nil {
				return err
			}
			log.Info("Fixture seeded", "users", len(snap.Users), "posts", len(snap.Posts), "stories", len(snap.Stories))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML fixture to seed instead of the embedded sample")
	return cmd
}
