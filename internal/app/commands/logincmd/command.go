package logincmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openconceptlab/ocladmin/internal/app/command"
)

const passwordEnv = "OCL_PASSWORD"

func New(ctx context.Context) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "sign in to OCL and remember the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if username == "" || password == "" {
				return command.WrapError(errors.New("username and password are required (the password may also come from " + passwordEnv + ")"))
			}

			app, err := command.InitializeApp(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			defer app.Close()

			return command.WrapError(login(ctx, cmd, app, username, password))
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "OCL username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "OCL password")
	return cmd
}

func login(ctx context.Context, cmd *cobra.Command, app *command.App, username, password string) error {
	slog.Info("Logging in", slog.String("api", app.Config.APIURL), slog.String("username", username))

	profile, err := app.Session.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", profile.Username)
	return nil
}
