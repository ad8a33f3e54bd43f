package logoutcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openconceptlab/ocladmin/internal/app/command"
)

func New(_ context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "forget the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := command.InitializeApp(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			defer app.Close()

			if err := app.Session.Logout(); err != nil {
				return command.WrapError(fmt.Errorf("logout: %w", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
