package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldErrors_Order(t *testing.T) {
	e := NewFieldErrors()
	e.Set("shortCode", "Short code is required")
	e.Set("owner", "Select this dictionary's owner")
	e.SetIfAbsent("owner", "ignored")

	require.Equal(t, []string{"shortCode", "owner"}, e.Fields())
	require.Equal(t, map[string]string{
		"shortCode": "Short code is required",
		"owner":     "Select this dictionary's owner",
	}, e.Map())
	require.Equal(t, "shortCode: Short code is required; owner: Select this dictionary's owner", e.String())

	data, err := json.Marshal(e)
	require.NoError(t, err)
	require.JSONEq(t, `{"shortCode":"Short code is required","owner":"Select this dictionary's owner"}`, string(data))
}

func TestFieldErrors_Nil(t *testing.T) {
	var e *FieldErrors
	require.Equal(t, 0, e.Len())
	require.True(t, e.Empty())
	require.Nil(t, e.Fields())
	require.Empty(t, e.Map())
	require.Nil(t, e.Clone())

	_, ok := e.Get("owner")
	require.False(t, ok)
}

func TestGeneralError(t *testing.T) {
	e := GeneralError("Service unavailable")
	require.Equal(t, "Service unavailable", e.General())

	c := e.Clone()
	c.Set("owner", "bad owner")
	require.Equal(t, 1, e.Len())
	require.Equal(t, 2, c.Len())
}

func TestLocaleList_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected LocaleList
	}{
		{name: "array", input: `["en","fr"]`, expected: LocaleList{"en", "fr"}},
		{name: "comma separated", input: `"en, fr,,sw"`, expected: LocaleList{"en", "fr", "sw"}},
		{name: "empty string", input: `""`, expected: LocaleList{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var l LocaleList
			require.NoError(t, json.Unmarshal([]byte(tc.input), &l))
			require.Equal(t, tc.expected, l)
		})
	}

	var l LocaleList
	require.Error(t, json.Unmarshal([]byte(`42`), &l))
	require.Equal(t, "en,fr", LocaleList{"en", "fr"}.Join())
}
