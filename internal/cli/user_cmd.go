package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/task_service/internal/domain"
)

func newUserCmd(flags *dbFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserCreateCmd(flags))
	return cmd
}

func newUserCreateCmd(flags *dbFlags) *cobra.Command {
	var (
		id   string
		role string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user with a role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}

			repo, closeDB, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := repo.CreateUser(cmd.Context(), domain.User{ID: id, Role: r}); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", id, r)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "user id")
	cmd.Flags().StringVar(&role, "role", domain.RoleUser.String(), "role (admin, mortal)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
