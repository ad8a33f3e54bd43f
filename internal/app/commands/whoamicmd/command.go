package whoamicmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openconceptlab/ocladmin/internal/app/command"
)

func New(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "show the signed-in user and who they can create dictionaries for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := command.InitializeApp(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			defer app.Close()

			return command.WrapError(whoami(ctx, cmd, app))
		},
	}
}

func whoami(ctx context.Context, cmd *cobra.Command, app *command.App) error {
	owners, err := app.Session.Owners(ctx)
	if err != nil {
		return fmt.Errorf("list owners: %w", err)
	}

	rows := make([][]string, 0, len(owners))
	for _, o := range owners {
		rows = append(rows, []string{o.Label, o.Type, o.URL})
	}
	return command.PrintTable(cmd.OutOrStdout(), []string{"OWNER", "TYPE", "URL"}, rows)
}
