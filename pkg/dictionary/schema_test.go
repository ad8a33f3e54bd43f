package dictionary

import (
	"testing"

	"github.com/acronis/go-stacktrace"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		DictionaryName:    "Test",
		ShortCode:         "T1",
		PreferredSource:   "CIEL",
		Owner:             "org-1",
		Visibility:        "View",
		PreferredLanguage: "en",
		OtherLanguages:    []string{},
	}
}

func requireFieldErrors(t *testing.T, err error, expected map[string]string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, expected, verr.Fields.Map())
}

func TestSchema_Valid(t *testing.T) {
	require.NoError(t, DefaultSchema().Validate(validDraft()))

	d := validDraft()
	d.Description = "A dictionary"
	d.OtherLanguages = []string{"fr", "sw"}
	require.NoError(t, DefaultSchema().Validate(d))

	d.OtherLanguages = nil
	require.NoError(t, DefaultSchema().Validate(d))
}

func TestSchema_MissingOwner(t *testing.T) {
	d := validDraft()
	d.Owner = ""

	requireFieldErrors(t, DefaultSchema().Validate(d), map[string]string{
		FieldOwner: "Select this dictionary's owner",
	})
}

func TestSchema_RequiredFields(t *testing.T) {
	testCases := []struct {
		field   string
		clear   func(*Draft)
		message string
	}{
		{FieldDictionaryName, func(d *Draft) { d.DictionaryName = "" }, "Dictionary name is required"},
		{FieldShortCode, func(d *Draft) { d.ShortCode = "" }, "Short code is required"},
		{FieldPreferredSource, func(d *Draft) { d.PreferredSource = "" }, "Select a preferred source"},
		{FieldOwner, func(d *Draft) { d.Owner = "" }, "Select this dictionary's owner"},
		{FieldVisibility, func(d *Draft) { d.Visibility = "" }, "Select who will have access to this dictionary"},
		{FieldPreferredLanguage, func(d *Draft) { d.PreferredLanguage = "" }, "Select a preferred language"},
	}

	for _, tc := range testCases {
		t.Run(tc.field, func(t *testing.T) {
			d := validDraft()
			tc.clear(&d)
			requireFieldErrors(t, DefaultSchema().Validate(d), map[string]string{tc.field: tc.message})
		})
	}
}

func TestSchema_UnsupportedSource(t *testing.T) {
	d := validDraft()
	d.PreferredSource = "PIH"

	requireFieldErrors(t, DefaultSchema().Validate(d), map[string]string{
		FieldPreferredSource: "This source is not supported",
	})
}

func TestSchema_AllowedSourcesConfigurable(t *testing.T) {
	s, err := NewSchema(WithAllowedSources("CIEL", "PIH"))
	require.NoError(t, err)
	require.Equal(t, []string{"CIEL", "PIH"}, s.AllowedSources())

	d := validDraft()
	d.PreferredSource = "PIH"
	require.NoError(t, s.Validate(d))

	d.PreferredSource = "LOINC"
	requireFieldErrors(t, s.Validate(d), map[string]string{
		FieldPreferredSource: "This source is not supported",
	})

	_, err = NewSchema(WithAllowedSources())
	require.Error(t, err)
}

func TestSchema_VisibilityOnlyCheckedForPresence(t *testing.T) {
	d := validDraft()
	d.Visibility = "Everyone"
	require.NoError(t, DefaultSchema().Validate(d))

	d.PreferredLanguage = "not-in-registry"
	require.NoError(t, DefaultSchema().Validate(d))
}

func TestSchema_Idempotent(t *testing.T) {
	d := Draft{PreferredSource: "nope"}

	first := DefaultSchema().Validate(d)
	second := DefaultSchema().Validate(d)

	var v1, v2 *ValidationError
	require.ErrorAs(t, first, &v1)
	require.ErrorAs(t, second, &v2)
	require.Equal(t, v1.Fields.Fields(), v2.Fields.Fields())
	require.Equal(t, v1.Fields.Map(), v2.Fields.Map())
	require.Equal(t, []string{
		FieldDictionaryName,
		FieldShortCode,
		FieldPreferredSource,
		FieldOwner,
		FieldVisibility,
		FieldPreferredLanguage,
	}, v1.Fields.Fields())
}

func TestSchema_ValidateMap(t *testing.T) {
	err := DefaultSchema().ValidateMap(map[string]any{
		"dictionaryName":    "Test",
		"shortCode":         "T1",
		"preferredSource":   "CIEL",
		"visibility":        "None",
		"preferredLanguage": "en",
		"otherLanguages":    "en",
	})
	requireFieldErrors(t, err, map[string]string{
		FieldOwner:          "Select this dictionary's owner",
		FieldOtherLanguages: "Other languages must be a list of locale codes",
	})

	err = DefaultSchema().ValidateMap(nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, 6, verr.Fields.Len())
}

func TestValidationError_StackTrace(t *testing.T) {
	d := validDraft()
	d.Owner = ""
	d.ShortCode = ""

	err := DefaultSchema().Validate(d)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Error(), "shortCode: Short code is required")

	st := verr.StackTrace()
	require.NotNil(t, st)
	_, ok := stacktrace.Unwrap(st)
	require.True(t, ok)
}
