package dictcmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/openconceptlab/ocladmin/internal/app/command"
	"github.com/openconceptlab/ocladmin/pkg/testsupp"
)

type backend struct {
	mu     sync.Mutex
	bodies map[string]string
}

func newBackend(t *testing.T) (*backend, string) {
	t.Helper()
	b := &backend{bodies: map[string]string{}}
	routes := map[string]string{
		"GET /user/":                                 `{"username":"admin","url":"/users/admin/"}`,
		"GET /user/orgs/":                            `[{"id":"org-1","name":"Org One","url":"/orgs/org-1/"}]`,
		"POST /orgs/org-1/sources/":                  `{"id":"T1","url":"/orgs/org-1/sources/T1/"}`,
		"POST /orgs/org-1/collections/":              `{"id":"T1","url":"/orgs/org-1/collections/T1/"}`,
		"GET /orgs/CIEL/collections/X/":              `{"id":"X","name":"Copied","public_access":"None","default_locale":"sw","supported_locales":"sw,en","url":"/orgs/CIEL/collections/X/"}`,
		"GET /orgs/CIEL/collections/X/versions/":     `[]`,
		"PUT /orgs/org-1/collections/T1/references/": `[]`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.bodies[key] = string(body)
		b.mu.Unlock()

		resp, ok := routes[key]
		if !ok {
			http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Token secret" {
			http.Error(w, `{"detail":"Authentication credentials were not provided."}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)
	return b, srv.URL
}

func (b *backend) body(key string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.bodies[key]
	return v, ok
}

func run(t *testing.T, apiURL string, args ...string) (string, string, error) {
	t.Helper()
	testsupp.InitLog(t)
	testsupp.TempConfigHome(t)

	sessionFile := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(sessionFile, []byte("token: secret\n"), 0o600))

	root := &cobra.Command{Use: "ocladmin", SilenceUsage: true, SilenceErrors: true}
	command.AddConfigFlags(root)
	root.AddCommand(New(context.Background()))

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--api-url", apiURL, "--session-file", sessionFile}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCreate(t *testing.T) {
	b, apiURL := newBackend(t)

	stdout, _, err := run(t, apiURL, "dictionaries", "create",
		"--name", "Test",
		"--short-code", "T1",
		"--owner", "org-1",
		"--visibility", "Public",
		"--preferred-language", "EN",
		"--other-languages", "fr-CA,sw",
	)
	require.NoError(t, err)
	require.Equal(t, "https://qa.openconceptlab.org/orgs/org-1/collections/T1/\n", stdout)

	body, ok := b.body("POST /orgs/org-1/collections/")
	require.True(t, ok)
	collection := gjson.Parse(body)
	require.Equal(t, "Test", collection.Get("name").String())
	require.Equal(t, "View", collection.Get("public_access").String())
	require.Equal(t, "en", collection.Get("default_locale").String())
	require.Equal(t, "en,fr,sw", collection.Get("supported_locales").String())
	require.Equal(t, "/orgs/org-1/sources/T1/", collection.Get("extras.source").String())
}

func TestCreate_CopyFromWithReferences(t *testing.T) {
	b, apiURL := newBackend(t)

	_, _, err := run(t, apiURL, "dict", "create",
		"--copy-from", "/orgs/CIEL/collections/X/",
		"--short-code", "T1",
		"--owner", "/orgs/org-1/",
		"--reference", "/orgs/CIEL/sources/CIEL/concepts/1/",
	)
	require.NoError(t, err)

	body, ok := b.body("POST /orgs/org-1/sources/")
	require.True(t, ok)
	source := gjson.Parse(body)
	require.Equal(t, "Copied", source.Get("name").String())
	require.Equal(t, "None", source.Get("public_access").String())
	require.Equal(t, "sw,en", source.Get("supported_locales").String())

	refs, ok := b.body("PUT /orgs/org-1/collections/T1/references/")
	require.True(t, ok)
	require.Equal(t, "/orgs/CIEL/sources/CIEL/concepts/1/", gjson.Get(refs, "data.expressions.0").String())
}

func TestCreate_InvalidDraftIsNotSent(t *testing.T) {
	b, apiURL := newBackend(t)

	_, stderr, err := run(t, apiURL, "dictionaries", "create",
		"--name", "Test",
		"--short-code", "T1",
		"--visibility", "private",
		"--preferred-language", "en",
	)
	var cmdErr *command.Error
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, "invalid dictionary", cmdErr.Msg)
	require.Contains(t, stderr, "owner: Select this dictionary's owner")

	_, sent := b.body("POST /orgs/org-1/sources/")
	require.False(t, sent)
}

func TestCreate_FromFile(t *testing.T) {
	b, apiURL := newBackend(t)
	file := filepath.Join(t.TempDir(), "draft.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
dictionaryName: From file
shortCode: T1
owner: org-1
visibility: View
preferredLanguage: en
otherLanguages: fr
`), 0o600))

	_, _, err := run(t, apiURL, "dictionaries", "create", "--file", file, "--name", "Overridden")
	require.NoError(t, err)

	body, ok := b.body("POST /orgs/org-1/collections/")
	require.True(t, ok)
	require.Equal(t, "Overridden", gjson.Get(body, "name").String())
	require.Equal(t, "en,fr", gjson.Get(body, "supported_locales").String())
}

func TestValidate(t *testing.T) {
	_, apiURL := newBackend(t)
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.yaml")
	require.NoError(t, os.WriteFile(valid, []byte(`
dictionaryName: Test
shortCode: T1
preferredSource: CIEL
owner: /orgs/org-1/
visibility: View
preferredLanguage: en
otherLanguages: []
`), 0o600))
	stdout, _, err := run(t, apiURL, "dictionaries", "validate", "--file", valid)
	require.NoError(t, err)
	require.Contains(t, stdout, "is a valid dictionary draft")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("dictionaryName: Test\npreferredSource: PIH\n"), 0o600))
	_, stderr, err := run(t, apiURL, "dictionaries", "validate", "--file", invalid)
	require.Error(t, err)
	require.Contains(t, stderr, "shortCode: Short code is required")
	require.Contains(t, stderr, "preferredSource: This source is not supported")
}

func TestValidate_AgreesWithCreate(t *testing.T) {
	b, apiURL := newBackend(t)
	file := filepath.Join(t.TempDir(), "draft.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
dictionaryName: Default source
shortCode: T1
owner: org-1
visibility: View
preferredLanguage: en
`), 0o600))

	stdout, _, err := run(t, apiURL, "dictionaries", "validate", "--file", file)
	require.NoError(t, err)
	require.Contains(t, stdout, "is a valid dictionary draft")

	_, _, err = run(t, apiURL, "dictionaries", "create", "--file", file)
	require.NoError(t, err)
	body, ok := b.body("POST /orgs/org-1/sources/")
	require.True(t, ok)
	require.Equal(t, "Default source", gjson.Get(body, "name").String())
}
