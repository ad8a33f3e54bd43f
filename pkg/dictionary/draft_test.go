package dictionary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openconceptlab/ocladmin/pkg/model"
)

func TestNewDraft(t *testing.T) {
	d := NewDraft()
	require.Equal(t, Draft{PreferredSource: "CIEL", OtherLanguages: []string{}}, d)
}

func TestDraftFromDictionary(t *testing.T) {
	src := &model.Dictionary{
		ID:               "X",
		ShortCode:        "X",
		Name:             "Source dictionary",
		Description:      "Copied",
		PreferredSource:  "CIEL",
		PublicAccess:     model.VisibilityPrivate,
		DefaultLocale:    "en",
		SupportedLocales: []string{"en", "fr", "sw", "fr"},
		Owner:            "CIEL",
		URL:              "/orgs/CIEL/collections/X/",
	}

	d := DraftFromDictionary(src)
	require.Equal(t, Draft{
		DictionaryName:    "Source dictionary",
		Description:       "Copied",
		PreferredSource:   "CIEL",
		Visibility:        model.VisibilityPrivate,
		PreferredLanguage: "en",
		OtherLanguages:    []string{"fr", "sw"},
	}, d)

	require.Equal(t, NewDraft(), DraftFromDictionary(nil))

	src.PreferredSource = ""
	require.Equal(t, "CIEL", DraftFromDictionary(src).PreferredSource)
}

func TestDraftFromMap(t *testing.T) {
	d, err := DraftFromMap(map[string]any{
		"dictionaryName":    "Test",
		"shortCode":         "T1",
		"owner":             "/orgs/org-1/",
		"visibility":        "View",
		"preferredLanguage": "en",
		"otherLanguages":    "fr,sw",
	})
	require.NoError(t, err)
	require.Equal(t, Draft{
		DictionaryName:    "Test",
		ShortCode:         "T1",
		PreferredSource:   "CIEL",
		Owner:             "/orgs/org-1/",
		Visibility:        "View",
		PreferredLanguage: "en",
		OtherLanguages:    []string{"fr", "sw"},
	}, d)

	d, err = DraftFromMap(map[string]any{"otherLanguages": []any{"fr"}})
	require.NoError(t, err)
	require.Equal(t, []string{"fr"}, d.OtherLanguages)

	_, err = DraftFromMap(map[string]any{"unknown": true})
	require.Error(t, err)
}

func TestDraft_SupportedLocales(t *testing.T) {
	d := Draft{PreferredLanguage: "en", OtherLanguages: []string{"fr", "en", "", "sw"}}
	require.Equal(t, []string{"en", "fr", "sw"}, d.SupportedLocales())

	require.Empty(t, Draft{}.SupportedLocales())
}

func TestDraft_CloneAndFingerprint(t *testing.T) {
	d := validDraft()
	d.OtherLanguages = []string{"fr"}

	c := d.Clone()
	c.OtherLanguages[0] = "sw"
	require.Equal(t, "fr", d.OtherLanguages[0])

	require.Equal(t, d.Fingerprint(), d.Clone().Fingerprint())
	require.NotEqual(t, d.Fingerprint(), c.Fingerprint())
	require.Regexp(t, `^xxh3:[0-9a-f]{16}$`, d.Fingerprint())

	require.Equal(t, []string{}, Draft{}.Clone().OtherLanguages)
}
