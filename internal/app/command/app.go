package command

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/openconceptlab/ocladmin/pkg/api"
	"github.com/openconceptlab/ocladmin/pkg/config"
	"github.com/openconceptlab/ocladmin/pkg/dictionary"
	"github.com/openconceptlab/ocladmin/pkg/locale"
	"github.com/openconceptlab/ocladmin/pkg/metrics"
	"github.com/openconceptlab/ocladmin/pkg/session"
	"github.com/openconceptlab/ocladmin/pkg/state"
)

// App bundles what a command needs to talk to OCL.
type App struct {
	Config  config.Config
	Client  *api.Client
	Store   *state.Store
	Session *session.Session
	Metrics *metrics.Metrics
	Locales *locale.Registry
	Schema  *dictionary.Schema
}

// InitializeApp builds the client stack and restores a saved login, if any.
func InitializeApp(cmd *cobra.Command) (*App, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	client, err := api.New(cfg.APIURL, api.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}
	schema, err := dictionary.NewSchema(dictionary.WithAllowedSources(cfg.AllowedSources...))
	if err != nil {
		return nil, fmt.Errorf("compile dictionary schema: %w", err)
	}

	store := state.New()
	app := &App{
		Config:  cfg,
		Client:  client,
		Store:   store,
		Session: session.New(client, store, cfg.SessionFile),
		Metrics: metrics.New(),
		Locales: locale.Default(),
		Schema:  schema,
	}

	restored, err := app.Session.Restore()
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	slog.Debug("Application initialized",
		slog.String("api", cfg.APIURL),
		slog.Bool("logged_in", restored),
		slog.Any("allowed_sources", cfg.AllowedSources),
	)
	return app, nil
}

// Close flushes the run's metrics.
func (a *App) Close() {
	a.Metrics.LogSummary()
	if a.Config.MetricsFile == "" {
		return
	}
	if err := a.Metrics.WriteTextfile(a.Config.MetricsFile); err != nil {
		slog.Warn("Failed to write metrics", slog.Any("error", err))
	}
}
