package dictionary

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/mitchellh/mapstructure"
	"github.com/zeebo/xxh3"
)

const DefaultPreferredSource = "CIEL"

const (
	FieldDictionaryName    = "dictionaryName"
	FieldShortCode         = "shortCode"
	FieldDescription       = "description"
	FieldPreferredSource   = "preferredSource"
	FieldOwner             = "owner"
	FieldVisibility        = "visibility"
	FieldPreferredLanguage = "preferredLanguage"
	FieldOtherLanguages    = "otherLanguages"
)

// Fields lists draft fields in form order.
var Fields = []string{
	FieldDictionaryName,
	FieldShortCode,
	FieldDescription,
	FieldPreferredSource,
	FieldOwner,
	FieldVisibility,
	FieldPreferredLanguage,
	FieldOtherLanguages,
}

// Draft is a dictionary that has not been submitted yet.
type Draft struct {
	DictionaryName    string   `json:"dictionaryName" yaml:"dictionaryName"`
	ShortCode         string   `json:"shortCode" yaml:"shortCode"`
	Description       string   `json:"description" yaml:"description"`
	PreferredSource   string   `json:"preferredSource" yaml:"preferredSource"`
	Owner             string   `json:"owner" yaml:"owner"`
	Visibility        string   `json:"visibility" yaml:"visibility"`
	PreferredLanguage string   `json:"preferredLanguage" yaml:"preferredLanguage"`
	OtherLanguages    []string `json:"otherLanguages" yaml:"otherLanguages"`
}

// NewDraft returns a blank draft. Only the preferred source has a default.
func NewDraft() Draft {
	return Draft{
		PreferredSource: DefaultPreferredSource,
		OtherLanguages:  []string{},
	}
}

// DraftFromMap decodes a loosely typed document (e.g. a parsed YAML file) on top of a blank draft.
// otherLanguages may be given either as a list or as a comma separated string.
func DraftFromMap(doc map[string]any) (Draft, error) {
	d := NewDraft()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &d,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return Draft{}, fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(doc); err != nil {
		return Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	if d.OtherLanguages == nil {
		d.OtherLanguages = []string{}
	}
	return d, nil
}

func (d Draft) Clone() Draft {
	c := d
	c.OtherLanguages = slices.Clone(d.OtherLanguages)
	if c.OtherLanguages == nil {
		c.OtherLanguages = []string{}
	}
	return c
}

// SupportedLocales is the preferred language followed by the other languages, without duplicates.
func (d Draft) SupportedLocales() []string {
	out := make([]string, 0, len(d.OtherLanguages)+1)
	if d.PreferredLanguage != "" {
		out = append(out, d.PreferredLanguage)
	}
	for _, l := range d.OtherLanguages {
		if l != "" && !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}

// Fingerprint identifies the draft's content in logs.
func (d Draft) Fingerprint() string {
	data, err := json.Marshal(d.document())
	if err != nil {
		return ""
	}
	return fmt.Sprintf("xxh3:%016x", xxh3.Hash(data))
}

func (d Draft) document() map[string]any {
	other := make([]any, 0, len(d.OtherLanguages))
	for _, l := range d.OtherLanguages {
		other = append(other, l)
	}
	return map[string]any{
		FieldDictionaryName:    d.DictionaryName,
		FieldShortCode:         d.ShortCode,
		FieldDescription:       d.Description,
		FieldPreferredSource:   d.PreferredSource,
		FieldOwner:             d.Owner,
		FieldVisibility:        d.Visibility,
		FieldPreferredLanguage: d.PreferredLanguage,
		FieldOtherLanguages:    other,
	}
}
