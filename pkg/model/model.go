package model

// Visibility values understood by the backend's public_access field.
const (
	VisibilityPublic  = "View"
	VisibilityPrivate = "None"
)

const (
	OwnerTypeUser         = "User"
	OwnerTypeOrganization = "Organization"

	DictionaryCollectionType = "Dictionary"
	DictionarySourceType     = "Dictionary"
	CustomValidationSchema   = "OpenMRS"
)

// VisibilityLabels maps the choices offered to users onto internal values.
var VisibilityLabels = map[string]string{
	"Public":  VisibilityPublic,
	"Private": VisibilityPrivate,
}

type DictionaryExtras struct {
	Source string `json:"source,omitempty"`
}

type Dictionary struct {
	ID               string            `json:"id"`
	ShortCode        string            `json:"short_code"`
	Name             string            `json:"name"`
	FullName         string            `json:"full_name,omitempty"`
	Description      string            `json:"description,omitempty"`
	CollectionType   string            `json:"collection_type,omitempty"`
	PreferredSource  string            `json:"preferred_source,omitempty"`
	Owner            string            `json:"owner,omitempty"`
	OwnerType        string            `json:"owner_type,omitempty"`
	OwnerURL         string            `json:"owner_url,omitempty"`
	PublicAccess     string            `json:"public_access,omitempty"`
	DefaultLocale    string            `json:"default_locale,omitempty"`
	SupportedLocales LocaleList        `json:"supported_locales,omitempty"`
	URL              string            `json:"url"`
	Extras           *DictionaryExtras `json:"extras,omitempty"`
	ActiveConcepts   int               `json:"active_concepts,omitempty"`

	// Filled in by detail lookups.
	Source   *Source   `json:"-"`
	Versions []Version `json:"-"`
}

// LinkedSource returns the URL of the source created alongside the dictionary.
func (d *Dictionary) LinkedSource() string {
	if d == nil || d.Extras == nil {
		return ""
	}
	return d.Extras.Source
}

type Source struct {
	ID               string     `json:"id"`
	ShortCode        string     `json:"short_code"`
	Name             string     `json:"name"`
	FullName         string     `json:"full_name,omitempty"`
	Description      string     `json:"description,omitempty"`
	SourceType       string     `json:"source_type,omitempty"`
	PublicAccess     string     `json:"public_access,omitempty"`
	DefaultLocale    string     `json:"default_locale,omitempty"`
	SupportedLocales LocaleList `json:"supported_locales,omitempty"`
	URL              string     `json:"url"`
}

type Version struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Released    bool   `json:"released"`
	URL         string `json:"version_url,omitempty"`
}

type Organisation struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Company      string `json:"company,omitempty"`
	Website      string `json:"website,omitempty"`
	Location     string `json:"location,omitempty"`
	PublicAccess string `json:"public_access,omitempty"`
	URL          string `json:"url,omitempty"`
}

type Profile struct {
	Username         string `json:"username"`
	Name             string `json:"name,omitempty"`
	Email            string `json:"email,omitempty"`
	Company          string `json:"company,omitempty"`
	Location         string `json:"location,omitempty"`
	URL              string `json:"url"`
	OrganizationsURL string `json:"organizations_url,omitempty"`
}

// Owner is a selectable dictionary owner: the user themselves or one of their organisations.
type Owner struct {
	Label string
	URL   string
	Type  string
}
