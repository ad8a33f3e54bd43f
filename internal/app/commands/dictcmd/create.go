package dictcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openconceptlab/ocladmin/internal/app/command"
	"github.com/openconceptlab/ocladmin/pkg/dictionary"
	"github.com/openconceptlab/ocladmin/pkg/model"
	"github.com/openconceptlab/ocladmin/pkg/session"
	"github.com/openconceptlab/ocladmin/pkg/workflow"
)

type createOptions struct {
	file       string
	copyFrom   string
	prevPath   string
	references []string

	name              string
	shortCode         string
	description       string
	preferredSource   string
	owner             string
	visibility        string
	preferredLanguage string
	otherLanguages    []string
}

func newCreate(ctx context.Context) *cobra.Command {
	var opts createOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "create a dictionary together with its source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := command.InitializeApp(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			defer app.Close()

			return command.WrapError(create(ctx, cmd, app, opts))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "draft file (YAML or JSON); flags override its values")
	f.StringVar(&opts.copyFrom, "copy-from", "", "URL of a dictionary to copy details from")
	f.StringVar(&opts.prevPath, "prev-path", "/user/collections/", "listing the dictionary is created from")
	f.StringArrayVar(&opts.references, "reference", nil, "concept expression to add once created (repeatable)")
	f.StringVar(&opts.name, "name", "", "dictionary name")
	f.StringVar(&opts.shortCode, "short-code", "", "short code")
	f.StringVar(&opts.description, "description", "", "description")
	f.StringVar(&opts.preferredSource, "preferred-source", dictionary.DefaultPreferredSource, "source concepts are preferably taken from")
	f.StringVar(&opts.owner, "owner", "", `owner URL, organisation id or "me"`)
	f.StringVar(&opts.visibility, "visibility", "", "public or private")
	f.StringVar(&opts.preferredLanguage, "preferred-language", "", "preferred language code")
	f.StringSliceVar(&opts.otherLanguages, "other-languages", nil, "other language codes, comma separated")
	return cmd
}

func create(ctx context.Context, cmd *cobra.Command, app *command.App, opts createOptions) error {
	if !app.Session.LoggedIn() {
		return session.ErrNotLoggedIn
	}

	out := cmd.OutOrStdout()
	ctrl := workflow.New(app.Client, app.Store,
		workflow.WithSchema(app.Schema),
		workflow.WithMetrics(app.Metrics),
		workflow.WithNavigator(workflow.NavigatorFunc(func(url string) {
			fmt.Fprintln(out, app.Config.DictionaryURL(url))
		})),
		workflow.WithTransitionHook(func(from, to workflow.State) {
			slog.Debug("Create dictionary", slog.String("from", from.String()), slog.String("to", to.String()))
		}),
	)
	defer ctrl.Exit()

	if err := ctrl.Enter(ctx, workflow.EntryParams{CopyFrom: opts.copyFrom, PrevPath: opts.prevPath}); err != nil {
		return fmt.Errorf("prepare draft: %w", err)
	}
	slog.Info(ctrl.Title())

	var overrides *dictionary.Draft
	if opts.file != "" {
		doc, err := readDraftFile(opts.file)
		if err != nil {
			return err
		}
		d, err := dictionary.DraftFromMap(doc)
		if err != nil {
			return err
		}
		overrides = &d
	}

	var editErr error
	ctrl.Update(func(d *dictionary.Draft) {
		if overrides != nil {
			merge(d, *overrides)
		}
		editErr = applyFlags(cmd, d, opts)
	})
	if editErr != nil {
		return editErr
	}

	if err := resolveDraft(ctx, app, ctrl); err != nil {
		return err
	}
	ctrl.SetReferences(opts.references...)

	slog.Debug("Submitting dictionary", slog.String("draft", ctrl.Draft().Fingerprint()))
	if _, err := ctrl.Submit(ctx); err != nil {
		if !errors.Is(err, workflow.ErrSubmitInFlight) && !errors.Is(err, workflow.ErrCompleted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "The dictionary was not created:")
			command.PrintFieldErrors(cmd.ErrOrStderr(), ctrl.Errors())
		}
		return err
	}
	return nil
}

// merge copies the non-empty fields of src over dst.
func merge(dst *dictionary.Draft, src dictionary.Draft) {
	set := func(target *string, v string) {
		if v != "" {
			*target = v
		}
	}
	set(&dst.DictionaryName, src.DictionaryName)
	set(&dst.ShortCode, src.ShortCode)
	set(&dst.Description, src.Description)
	set(&dst.PreferredSource, src.PreferredSource)
	set(&dst.Owner, src.Owner)
	set(&dst.Visibility, src.Visibility)
	set(&dst.PreferredLanguage, src.PreferredLanguage)
	if len(src.OtherLanguages) > 0 {
		dst.OtherLanguages = src.OtherLanguages
	}
}

func applyFlags(cmd *cobra.Command, d *dictionary.Draft, opts createOptions) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		d.DictionaryName = opts.name
	}
	if changed("short-code") {
		d.ShortCode = opts.shortCode
	}
	if changed("description") {
		d.Description = opts.description
	}
	if changed("preferred-source") {
		d.PreferredSource = opts.preferredSource
	}
	if changed("owner") {
		d.Owner = opts.owner
	}
	if changed("visibility") {
		d.Visibility = opts.visibility
	}
	if changed("preferred-language") {
		d.PreferredLanguage = opts.preferredLanguage
	}
	if changed("other-languages") {
		d.OtherLanguages = opts.otherLanguages
	}

	if d.Visibility != "" {
		v, err := visibilityValue(d.Visibility)
		if err != nil {
			return err
		}
		d.Visibility = v
	}
	return nil
}

// visibilityValue accepts both the labels users pick from and the values the backend stores.
func visibilityValue(s string) (string, error) {
	for label, value := range model.VisibilityLabels {
		if strings.EqualFold(s, label) || s == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("visibility %q must be public or private", s)
}

// resolveDraft turns the owner reference into its URL and normalizes language codes.
func resolveDraft(ctx context.Context, app *command.App, ctrl *workflow.Controller) error {
	draft := ctrl.Draft()

	if draft.Owner != "" {
		owners, err := app.Session.Owners(ctx)
		if err != nil {
			return fmt.Errorf("list owners: %w", err)
		}
		owner, err := session.ResolveOwner(owners, draft.Owner)
		if err != nil {
			return err
		}
		draft.Owner = owner.URL
	}

	if draft.PreferredLanguage != "" {
		code, err := app.Locales.Normalize(draft.PreferredLanguage)
		if err != nil {
			return err
		}
		draft.PreferredLanguage = code
	}
	other, err := app.Locales.NormalizeAll(draft.OtherLanguages)
	if err != nil {
		return err
	}
	draft.OtherLanguages = other

	ctrl.Update(func(d *dictionary.Draft) {
		d.Owner = draft.Owner
		d.PreferredLanguage = draft.PreferredLanguage
		d.OtherLanguages = draft.OtherLanguages
	})
	return nil
}
