package dictcmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openconceptlab/ocladmin/internal/app/command"
	"github.com/openconceptlab/ocladmin/pkg/model"
)

func New(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dictionaries",
		Aliases: []string{"dict"},
		Short:   "create and inspect dictionaries",
	}
	cmd.AddCommand(
		newList(ctx),
		newGet(ctx),
		newCreate(ctx),
		newValidate(ctx),
	)
	return cmd
}

func newList(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list your dictionaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := command.InitializeApp(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			defer app.Close()

			ds, err := app.Session.LoadDictionaries(ctx)
			if err != nil {
				return command.WrapError(fmt.Errorf("list dictionaries: %w", err))
			}
			rows := make([][]string, 0, len(ds))
			for _, d := range ds {
				rows = append(rows, []string{d.ShortCode, d.Name, d.Owner, d.URL})
			}
			return command.WrapError(command.PrintTable(cmd.OutOrStdout(), []string{"SHORT CODE", "NAME", "OWNER", "URL"}, rows))
		},
	}
}

func newGet(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "get URL",
		Short: "show a dictionary with its versions and linked source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := command.InitializeApp(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			defer app.Close()

			d, err := app.Client.RetrieveDictionaryAndDetails(ctx, args[0])
			if err != nil {
				return command.WrapError(err)
			}
			printDictionary(cmd, d)
			return nil
		},
	}
}

func printDictionary(cmd *cobra.Command, d *model.Dictionary) {
	w := cmd.OutOrStdout()
	visibility := d.PublicAccess
	for label, value := range model.VisibilityLabels {
		if value == d.PublicAccess {
			visibility = label
		}
	}
	fmt.Fprintf(w, "Name:               %s\n", d.Name)
	fmt.Fprintf(w, "Short code:         %s\n", d.ShortCode)
	fmt.Fprintf(w, "Description:        %s\n", d.Description)
	fmt.Fprintf(w, "Owner:              %s\n", d.OwnerURL)
	fmt.Fprintf(w, "Preferred source:   %s\n", d.PreferredSource)
	fmt.Fprintf(w, "Visibility:         %s\n", visibility)
	fmt.Fprintf(w, "Preferred language: %s\n", d.DefaultLocale)
	fmt.Fprintf(w, "Languages:          %s\n", strings.Join(d.SupportedLocales, ", "))
	fmt.Fprintf(w, "Linked source:      %s\n", d.LinkedSource())
	fmt.Fprintf(w, "URL:                %s\n", d.URL)
	if len(d.Versions) > 0 {
		fmt.Fprintln(w, "Versions:")
		for _, v := range d.Versions {
			released := ""
			if v.Released {
				released = " (released)"
			}
			fmt.Fprintf(w, "  %s%s %s\n", v.ID, released, v.Description)
		}
	}
}
