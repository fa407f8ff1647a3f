package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(flags *dbFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tokens, users and tasks tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeDB, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := repo.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		},
	}
}
