package dictcmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openconceptlab/ocladmin/internal/app/command"
	"github.com/openconceptlab/ocladmin/pkg/config"
	"github.com/openconceptlab/ocladmin/pkg/dictionary"
)

func newValidate(_ context.Context) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "check a draft file without sending it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			return command.WrapError(validate(cmd, cfg, file))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "draft file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// validate decodes the file the way create does, so defaults such as the preferred source apply to both.
func validate(cmd *cobra.Command, cfg config.Config, file string) error {
	doc, err := readDraftFile(file)
	if err != nil {
		return err
	}
	schema, err := dictionary.NewSchema(dictionary.WithAllowedSources(cfg.AllowedSources...))
	if err != nil {
		return fmt.Errorf("compile dictionary schema: %w", err)
	}

	draft, err := dictionary.DraftFromMap(doc)
	if err != nil {
		return err
	}
	if err := schema.Validate(draft); err != nil {
		var verr *dictionary.ValidationError
		if errors.As(err, &verr) {
			command.PrintFieldErrors(cmd.ErrOrStderr(), verr.Fields)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid dictionary draft\n", file)
	return nil
}
