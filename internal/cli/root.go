// Package cli implements taskctl, the operator CLI for the tasks database.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/task_service/internal/store/gormstore"
	"github.com/Skotchmaster/task_service/pkg/config"
	pkgdb "github.com/Skotchmaster/task_service/pkg/db"
)

// Execute runs the CLI.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type dbFlags struct {
	driver string
	dsn    string
}

// open connects to the database named by the flags, falling back to
// DB_DRIVER and DATABASE_URL.
func (f *dbFlags) open(ctx context.Context) (*gormstore.GormRepo, func(), error) {
	if f.dsn == "" {
		return nil, nil, errors.New("--database-url or DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := pkgdb.Open(ctx, f.driver, f.dsn)
	if err != nil {
		return nil, nil, err
	}
	return &gormstore.GormRepo{DB: db}, func() { _ = pkgdb.Close(db) }, nil
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	flags := &dbFlags{}

	rootCmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Tasks service operator CLI",
		Long:          "Schema migration, user creation and token issuance for the tasks database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.driver, "driver", cfg.DBDriver, "database driver (pgx, postgres, sqlite)")
	rootCmd.PersistentFlags().StringVar(&flags.dsn, "database-url", cfg.DatabaseURL, "database connection string")

	rootCmd.AddCommand(newMigrateCmd(flags))
	rootCmd.AddCommand(newUserCmd(flags))
	rootCmd.AddCommand(newTokenCmd(flags))

	return rootCmd
}
