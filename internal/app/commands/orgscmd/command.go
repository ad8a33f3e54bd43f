package orgscmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/openconceptlab/ocladmin/internal/app/command"
	"github.com/openconceptlab/ocladmin/pkg/api"
	"github.com/openconceptlab/ocladmin/pkg/model"
)

func New(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orgs",
		Short: "work with your organisations",
	}
	cmd.AddCommand(newList(ctx), newCreate(ctx))
	return cmd
}

func newList(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list the organisations you belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := command.InitializeApp(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			defer app.Close()

			orgs, err := app.Session.LoadOrganisations(ctx)
			if err != nil {
				return command.WrapError(fmt.Errorf("list organisations: %w", err))
			}
			rows := make([][]string, 0, len(orgs))
			for _, o := range orgs {
				rows = append(rows, []string{o.ID, o.Name, o.URL})
			}
			return command.WrapError(command.PrintTable(cmd.OutOrStdout(), []string{"ID", "NAME", "URL"}, rows))
		},
	}
}

func newCreate(ctx context.Context) *cobra.Command {
	var (
		org     model.Organisation
		private bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "create an organisation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := command.InitializeApp(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			defer app.Close()

			org.PublicAccess = model.VisibilityPublic
			if private {
				org.PublicAccess = model.VisibilityPrivate
			}

			slog.Info("Creating organisation", slog.String("id", org.ID))
			created, err := app.Session.CreateOrganisation(ctx, org)
			if err != nil {
				command.PrintFieldErrors(cmd.ErrOrStderr(), api.FieldErrors(err))
				return command.WrapError(fmt.Errorf("create organisation: %w", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), created.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&org.ID, "id", "", "short code of the organisation")
	cmd.Flags().StringVar(&org.Name, "name", "", "display name")
	cmd.Flags().StringVar(&org.Company, "company", "", "company")
	cmd.Flags().StringVar(&org.Website, "website", "", "website")
	cmd.Flags().StringVar(&org.Location, "location", "", "location")
	cmd.Flags().BoolVar(&private, "private", false, "hide the organisation from other users")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
