// Package locale holds the static registry of locale codes offered for a
// dictionary's preferred and supported languages.
package locale

import (
	_ "embed"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed data/locales.yaml
var embeddedLocales []byte

var defaultRegistry = MustLoad(embeddedLocales)

type Entry struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

type registryFile struct {
	Locales []Entry `yaml:"locales"`
}

// Registry is an ordered, read-only set of locales.
type Registry struct {
	entries *orderedmap.OrderedMap[string, Entry]
}

// Default returns the registry embedded in the binary.
func Default() *Registry {
	return defaultRegistry
}

func Load(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal locales: %w", err)
	}
	if len(f.Locales) == 0 {
		return nil, fmt.Errorf("no locales defined")
	}

	r := &Registry{entries: orderedmap.New[string, Entry]()}
	for _, e := range f.Locales {
		if e.Code == "" {
			return nil, fmt.Errorf("locale with label %q has no code", e.Label)
		}
		if _, present := r.entries.Set(e.Code, e); present {
			return nil, fmt.Errorf("duplicate locale %s", e.Code)
		}
	}
	return r, nil
}

func MustLoad(data []byte) *Registry {
	r, err := Load(data)
	if err != nil {
		panic(fmt.Errorf("load locales: %w", err))
	}
	return r
}

func (r *Registry) Len() int {
	return r.entries.Len()
}

// Entries returns all locales in registry order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, r.entries.Len())
	for pair := r.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

func (r *Registry) Codes() []string {
	out := make([]string, 0, r.entries.Len())
	for pair := r.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func (r *Registry) Lookup(code string) (Entry, bool) {
	normalized, err := r.Normalize(code)
	if err != nil {
		return Entry{}, false
	}
	return r.entries.Get(normalized)
}

func (r *Registry) Contains(code string) bool {
	_, ok := r.Lookup(code)
	return ok
}

// Normalize maps user input such as "EN" or "fr-CA" onto a registry code.
// Regional variants fall back to their base language.
func (r *Registry) Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if _, ok := r.entries.Get(code); ok {
		return code, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("parse locale %q: %w", code, err)
	}
	base, _ := tag.Base()
	if _, ok := r.entries.Get(base.String()); ok {
		return base.String(), nil
	}
	return "", fmt.Errorf("locale %q is not supported", code)
}

// NormalizeAll normalizes every code, keeping order and dropping duplicates.
func (r *Registry) NormalizeAll(codes []string) ([]string, error) {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if strings.TrimSpace(c) == "" {
			continue
		}
		n, err := r.Normalize(c)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}
