package command

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/acronis/go-stacktrace"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/openconceptlab/ocladmin/pkg/api"
	"github.com/openconceptlab/ocladmin/pkg/dictionary"
	"github.com/openconceptlab/ocladmin/pkg/model"
	"github.com/openconceptlab/ocladmin/pkg/testsupp"
)

func parse(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	AddConfigFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadConfig_Precedence(t *testing.T) {
	testsupp.TempConfigHome(t)
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("apiURL: https://file.example.org\ntimeout: 10s\n"), 0o600))
	t.Setenv("OCL_API_URL", "https://env.example.org")

	cfg, err := LoadConfig(parse(t, "--config", file))
	require.NoError(t, err)
	require.Equal(t, "https://env.example.org", cfg.APIURL)
	require.Equal(t, 10*time.Second, cfg.Timeout)

	cfg, err = LoadConfig(parse(t, "--config", file, "--api-url", "https://flag.example.org", "--timeout", "2s"))
	require.NoError(t, err)
	require.Equal(t, "https://flag.example.org", cfg.APIURL)
	require.Equal(t, 2*time.Second, cfg.Timeout)

	_, err = LoadConfig(parse(t, "--api-url", "nope"))
	require.ErrorContains(t, err, "invalid config")
}

func TestWrapError(t *testing.T) {
	require.NoError(t, WrapError(nil))

	fields := model.NewFieldErrors()
	fields.Set("owner", "Select this dictionary's owner")
	err := WrapError(&dictionary.ValidationError{Fields: fields})
	var cmdErr *Error
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, "invalid dictionary", cmdErr.Msg)
	var st *stacktrace.StackTrace
	require.ErrorAs(t, cmdErr.Inner, &st)

	err = WrapError(&api.Error{StatusCode: http.StatusUnauthorized, Fields: model.GeneralError("Invalid token.")})
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, "not authorized, try logging in again", cmdErr.Msg)

	plain := errors.New("boom")
	err = WrapError(plain)
	require.ErrorIs(t, err, plain)
	require.Equal(t, "command failed: boom", err.Error())
}

func TestPrintTableAndErrors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, []string{"ID", "NAME"}, [][]string{{"org-1", "Org One"}}))
	require.Equal(t, "ID     NAME\norg-1  Org One\n", buf.String())

	buf.Reset()
	errs := model.NewFieldErrors()
	errs.Set("shortCode", "taken")
	errs.Set(model.GeneralField, "Try again")
	PrintFieldErrors(&buf, errs)
	require.Equal(t, "  shortCode: taken\n  Try again\n", buf.String())
}
