package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/threadlog/internal/config"
)

func newTokenCmd(app *App, ids *identityFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the --org/--as/--role identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Tokens == nil {
				return fmt.Errorf("auth.secret is not configured (set %s_AUTH_SECRET)", config.EnvPrefix)
			}
			actor, err := ids.actor()
			if err != nil {
				return err
			}
			token, err := app.Tokens.Issue(actor)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
