package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/openconceptlab/ocladmin/pkg/dictionary"
	"github.com/openconceptlab/ocladmin/pkg/model"
)

// ProgressFunc receives a 0-100 completion estimate.
type ProgressFunc func(percent int)

type newSource struct {
	ID                     string `json:"id"`
	ShortCode              string `json:"short_code"`
	Name                   string `json:"name"`
	FullName               string `json:"full_name"`
	Description            string `json:"description,omitempty"`
	SourceType             string `json:"source_type"`
	PublicAccess           string `json:"public_access"`
	DefaultLocale          string `json:"default_locale"`
	SupportedLocales       string `json:"supported_locales"`
	CustomValidationSchema string `json:"custom_validation_schema"`
}

type newCollection struct {
	ID                     string                 `json:"id"`
	ShortCode              string                 `json:"short_code"`
	Name                   string                 `json:"name"`
	FullName               string                 `json:"full_name"`
	Description            string                 `json:"description,omitempty"`
	CollectionType         string                 `json:"collection_type"`
	PreferredSource        string                 `json:"preferred_source"`
	PublicAccess           string                 `json:"public_access"`
	DefaultLocale          string                 `json:"default_locale"`
	SupportedLocales       string                 `json:"supported_locales"`
	CustomValidationSchema string                 `json:"custom_validation_schema"`
	Extras                 model.DictionaryExtras `json:"extras"`
}

type referencesBody struct {
	Data struct {
		Expressions []string `json:"expressions"`
	} `json:"data"`
}

// CreateSourceAndDictionary creates the dictionary's backing source, then the dictionary
// collection linked to it, then adds the given reference expressions.
func (c *Client) CreateSourceAndDictionary(ctx context.Context, d dictionary.Draft, references []string, progress ProgressFunc) (*model.Dictionary, error) {
	if progress == nil {
		progress = func(int) {}
	}
	owner := withSlash(d.Owner)
	locales := model.LocaleList(d.SupportedLocales()).Join()

	progress(10)
	var source model.Source
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   owner + "sources/",
		body: newSource{
			ID:                     d.ShortCode,
			ShortCode:              d.ShortCode,
			Name:                   d.DictionaryName,
			FullName:               d.DictionaryName,
			Description:            d.Description,
			SourceType:             model.DictionarySourceType,
			PublicAccess:           d.Visibility,
			DefaultLocale:          d.PreferredLanguage,
			SupportedLocales:       locales,
			CustomValidationSchema: model.CustomValidationSchema,
		},
		fields: dictionaryFields,
	}, &source)
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}
	progress(40)

	var created model.Dictionary
	err = c.do(ctx, request{
		method: http.MethodPost,
		path:   owner + "collections/",
		body: newCollection{
			ID:                     d.ShortCode,
			ShortCode:              d.ShortCode,
			Name:                   d.DictionaryName,
			FullName:               d.DictionaryName,
			Description:            d.Description,
			CollectionType:         model.DictionaryCollectionType,
			PreferredSource:        d.PreferredSource,
			PublicAccess:           d.Visibility,
			DefaultLocale:          d.PreferredLanguage,
			SupportedLocales:       locales,
			CustomValidationSchema: model.CustomValidationSchema,
			Extras:                 model.DictionaryExtras{Source: source.URL},
		},
		fields: dictionaryFields,
	}, &created)
	if err != nil {
		slog.Warn("Dictionary source was created but the dictionary was not", slog.String("source", source.URL))
		return nil, fmt.Errorf("create dictionary: %w", err)
	}
	created.Source = &source
	progress(70)

	if len(references) > 0 {
		var body referencesBody
		body.Data.Expressions = references
		err = c.do(ctx, request{
			method: http.MethodPut,
			path:   withSlash(created.URL) + "references/",
			query:  url.Values{"cascade": {"sourcemappings"}},
			body:   body,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("add references to %s: %w", created.URL, err)
		}
	}
	progress(100)

	return &created, nil
}

// RetrieveDictionaryAndDetails fetches a dictionary by URL together with its versions
// and the source it is linked to.
func (c *Client) RetrieveDictionaryAndDetails(ctx context.Context, dictionaryURL string) (*model.Dictionary, error) {
	var d model.Dictionary
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   withSlash(dictionaryURL),
		query:  url.Values{"verbose": {"true"}},
	}, &d)
	if err != nil {
		return nil, fmt.Errorf("retrieve dictionary %s: %w", dictionaryURL, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var versions []model.Version
		if err := c.do(gctx, request{
			method: http.MethodGet,
			path:   withSlash(d.URL) + "versions/",
			query:  url.Values{"limit": {"0"}},
		}, &versions); err != nil {
			return fmt.Errorf("retrieve versions: %w", err)
		}
		d.Versions = versions
		return nil
	})
	if linked := d.LinkedSource(); linked != "" {
		g.Go(func() error {
			var src model.Source
			if err := c.do(gctx, request{method: http.MethodGet, path: withSlash(linked)}, &src); err != nil {
				return fmt.Errorf("retrieve linked source: %w", err)
			}
			d.Source = &src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("retrieve details of %s: %w", dictionaryURL, err)
	}

	if d.Source != nil {
		if d.DefaultLocale == "" {
			d.DefaultLocale = d.Source.DefaultLocale
		}
		if len(d.SupportedLocales) == 0 {
			d.SupportedLocales = d.Source.SupportedLocales
		}
	}
	return &d, nil
}

// FetchUserDictionaries lists the dictionaries owned by the current user.
func (c *Client) FetchUserDictionaries(ctx context.Context) ([]model.Dictionary, error) {
	var out []model.Dictionary
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/user/collections/",
		query:  url.Values{"collectionType": {model.DictionaryCollectionType}, "limit": {"0"}},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("fetch user dictionaries: %w", err)
	}
	return out, nil
}
