package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/task_service/internal/domain"
	"github.com/Skotchmaster/task_service/internal/store"
)

func newTokenCmd(flags *dbFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage bearer tokens",
	}
	cmd.AddCommand(newTokenIssueCmd(flags))
	return cmd
}

// newOpaqueToken returns 64 hex characters drawn from two random UUIDs.
func newOpaqueToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

func newTokenIssueCmd(flags *dbFlags) *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an opaque bearer token for an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ttl <= 0 {
				return errors.New("--ttl must be positive")
			}

			repo, closeDB, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if _, err := repo.GetUser(cmd.Context(), userID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("user %q does not exist", userID)
				}
				return fmt.Errorf("get user: %w", err)
			}

			tok := domain.Token{
				Token:     newOpaqueToken(),
				UserID:    userID,
				ExpiresAt: time.Now().UTC().Add(ttl),
			}
			if err := repo.CreateToken(cmd.Context(), tok); err != nil {
				return fmt.Errorf("create token: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id the token belongs to")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
