package localescmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openconceptlab/ocladmin/internal/app/command"
	"github.com/openconceptlab/ocladmin/pkg/locale"
)

func New(_ context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locales",
		Short: "supported dictionary languages",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "list the language codes a dictionary may use",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				entries := locale.Default().Entries()
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{e.Code, e.Label})
				}
				return command.WrapError(command.PrintTable(cmd.OutOrStdout(), []string{"CODE", "LANGUAGE"}, rows))
			},
		},
		&cobra.Command{
			Use:   "normalize CODE...",
			Short: "map language tags such as fr-CA onto supported codes",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				reg := locale.Default()
				for _, arg := range args {
					code, err := reg.Normalize(arg)
					if err != nil {
						return command.WrapError(err)
					}
					e, _ := reg.Lookup(code)
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", arg, e.Code, e.Label)
				}
				return nil
			},
		},
	)
	return cmd
}
