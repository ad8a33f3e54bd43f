package dictionary

import (
	"slices"

	"github.com/openconceptlab/ocladmin/pkg/model"
)

// DraftFromDictionary pre-fills a draft from an existing dictionary.
// Short code and owner stay blank since a copy needs its own.
func DraftFromDictionary(d *model.Dictionary) Draft {
	draft := NewDraft()
	if d == nil {
		return draft
	}

	draft.DictionaryName = d.Name
	draft.Description = d.Description
	if d.PreferredSource != "" {
		draft.PreferredSource = d.PreferredSource
	}
	draft.Visibility = d.PublicAccess
	draft.PreferredLanguage = d.DefaultLocale
	for _, l := range d.SupportedLocales {
		if l != "" && l != d.DefaultLocale && !slices.Contains(draft.OtherLanguages, l) {
			draft.OtherLanguages = append(draft.OtherLanguages, l)
		}
	}
	return draft
}
