package locale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r := Default()
	require.Equal(t, 184, r.Len())

	entries := r.Entries()
	require.Equal(t, Entry{Code: "en", Label: "English (en)"}, entries[0])
	require.Equal(t, Entry{Code: "zu", Label: "Zulu (zu)"}, entries[len(entries)-1])
	require.Len(t, r.Codes(), r.Len())

	e, ok := r.Lookup("no")
	require.True(t, ok)
	require.Equal(t, "Norwegian (no)", e.Label)
}

func TestRegistry_Normalize(t *testing.T) {
	r := Default()

	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "exact", input: "fr", expected: "fr"},
		{name: "upper case", input: "EN", expected: "en"},
		{name: "regional variant", input: "fr-CA", expected: "fr"},
		{name: "whitespace", input: " sw ", expected: "sw"},
		{name: "malformed", input: "not a locale", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Normalize(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestRegistry_NormalizeAll(t *testing.T) {
	got, err := Default().NormalizeAll([]string{"en", "EN", "", "fr-FR", "sw"})
	require.NoError(t, err)
	require.Equal(t, []string{"en", "fr", "sw"}, got)

	_, err = Default().NormalizeAll([]string{"en", "not a locale"})
	require.Error(t, err)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load([]byte("locales: []"))
	require.Error(t, err)

	_, err = Load([]byte("locales:\n  - code: en\n    label: English\n  - code: en\n    label: Again\n"))
	require.ErrorContains(t, err, "duplicate locale en")

	_, err = Load([]byte("locales:\n  - label: Nothing\n"))
	require.ErrorContains(t, err, "has no code")

	_, err = Load([]byte(":"))
	require.Error(t, err)
}
