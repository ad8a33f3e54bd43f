package testsupp

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/dusted-go/logging/prettylog"
	slogformatter "github.com/samber/slog-formatter"

	"github.com/openconceptlab/ocladmin/pkg/model"
)

// InitLog installs a debug-level pretty logger for the duration of the test.
func InitLog(t *testing.T) {
	t.Helper()

	funcHandler := slogformatter.NewFormatterHandler(
		slogformatter.FormatByType(func(s []string) slog.Value {
			return slog.StringValue(strings.Join(s, ","))
		}),
		slogformatter.FormatByType(func(errs *model.FieldErrors) slog.Value {
			return slog.StringValue(errs.String())
		}),
	)

	plHandler := prettylog.New(
		&slog.HandlerOptions{
			Level:       slog.LevelDebug,
			AddSource:   false,
			ReplaceAttr: nil,
		},
		prettylog.WithDestinationWriter(os.Stdout),
	)

	prev := slog.Default()
	slog.SetDefault(slog.New(funcHandler(plHandler)))
	t.Cleanup(func() { slog.SetDefault(prev) })
}

// TempConfigHome points XDG_CONFIG_HOME at a fresh directory for the duration of the test.
func TempConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}
