package dictionary

import (
	"fmt"
	"slices"
	"strings"

	"github.com/acronis/go-stacktrace"
	"github.com/xeipuuv/gojsonschema"

	"github.com/openconceptlab/ocladmin/pkg/model"
)

const (
	unsupportedSourceMessage = "This source is not supported"
	rootPrefix               = "(root)."
)

var requiredMessages = map[string]string{
	FieldDictionaryName:    "Dictionary name is required",
	FieldShortCode:         "Short code is required",
	FieldPreferredSource:   "Select a preferred source",
	FieldOwner:             "Select this dictionary's owner",
	FieldVisibility:        "Select who will have access to this dictionary",
	FieldPreferredLanguage: "Select a preferred language",
}

var typeMessages = map[string]string{
	FieldDescription:    "Description must be text",
	FieldOtherLanguages: "Other languages must be a list of locale codes",
}

// Lower rank wins when a field breaks several rules.
const (
	rankRequired = iota
	rankType
	rankMembership
)

type violation struct {
	rank int
	msg  string
}

// Schema holds the compiled validation rules for a dictionary draft.
//
// Visibility and preferred language are only checked for presence: the choices
// offered to users already restrict them.
type Schema struct {
	allowedSources []string
	compiled       *gojsonschema.Schema
}

type SchemaOption func(*Schema)

func WithAllowedSources(sources ...string) SchemaOption {
	return func(s *Schema) {
		s.allowedSources = slices.Clone(sources)
	}
}

var defaultSchema = MustCompileSchema()

// DefaultSchema accepts CIEL as the only preferred source.
func DefaultSchema() *Schema {
	return defaultSchema
}

func NewSchema(opts ...SchemaOption) (*Schema, error) {
	s := &Schema{allowedSources: []string{DefaultPreferredSource}}
	for _, o := range opts {
		o(s)
	}
	if len(s.allowedSources) == 0 {
		return nil, fmt.Errorf("at least one preferred source must be allowed")
	}

	compiled, err := gojsonschema.NewSchemaLoader().Compile(gojsonschema.NewGoLoader(s.document()))
	if err != nil {
		return nil, fmt.Errorf("compile draft schema: %w", err)
	}
	s.compiled = compiled
	return s, nil
}

func MustCompileSchema(opts ...SchemaOption) *Schema {
	s, err := NewSchema(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) AllowedSources() []string {
	return slices.Clone(s.allowedSources)
}

// Validate returns nil for a valid draft or a *ValidationError listing every invalid field.
func (s *Schema) Validate(d Draft) error {
	return s.validate(gojsonschema.NewGoLoader(d.document()))
}

// ValidateMap validates a loosely typed draft document. Absent required keys count as empty.
func (s *Schema) ValidateMap(doc map[string]any) error {
	if doc == nil {
		doc = map[string]any{}
	}
	return s.validate(gojsonschema.NewGoLoader(doc))
}

func (s *Schema) validate(loader gojsonschema.JSONLoader) error {
	res, err := s.compiled.Validate(loader)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if res.Valid() {
		return nil
	}

	found := make(map[string]violation)
	for _, re := range res.Errors() {
		field := resultField(re)
		v, ok := classify(field, re.Type())
		if !ok {
			continue
		}
		if prev, seen := found[field]; !seen || v.rank < prev.rank {
			found[field] = v
		}
	}

	fields := model.NewFieldErrors()
	for _, field := range Fields {
		if v, ok := found[field]; ok {
			fields.Set(field, v.msg)
		}
	}
	if fields.Empty() {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (s *Schema) document() map[string]any {
	required := make([]any, 0, len(requiredMessages))
	props := make(map[string]any, len(Fields))
	for _, field := range Fields {
		if _, ok := requiredMessages[field]; ok {
			required = append(required, field)
			props[field] = map[string]any{"type": "string", "minLength": 1}
		}
	}
	sources := make([]any, 0, len(s.allowedSources))
	for _, src := range s.allowedSources {
		sources = append(sources, src)
	}
	props[FieldPreferredSource].(map[string]any)["enum"] = sources
	props[FieldDescription] = map[string]any{"type": "string"}
	props[FieldOtherLanguages] = map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	return map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func resultField(re gojsonschema.ResultError) string {
	if re.Type() == "required" {
		if p, ok := re.Details()["property"].(string); ok {
			return p
		}
	}
	field := strings.TrimPrefix(re.Field(), rootPrefix)
	field, _, _ = strings.Cut(field, ".")
	return field
}

func classify(field, errType string) (violation, bool) {
	if msg, ok := requiredMessages[field]; ok {
		switch errType {
		case "required", "string_gte", "invalid_type":
			return violation{rank: rankRequired, msg: msg}, true
		case "enum":
			return violation{rank: rankMembership, msg: unsupportedSourceMessage}, true
		}
		return violation{}, false
	}
	if msg, ok := typeMessages[field]; ok {
		return violation{rank: rankType, msg: msg}, true
	}
	return violation{}, false
}

// ValidationError lists the invalid fields of a draft.
type ValidationError struct {
	Fields *model.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid dictionary draft: %s", e.Fields.String())
}

// StackTrace renders the violations one trace per field.
func (e *ValidationError) StackTrace() *stacktrace.StackTrace {
	st := stacktrace.New("validation failed", stacktrace.WithType("validation"))
	for _, field := range e.Fields.Fields() {
		msg, _ := e.Fields.Get(field)
		_ = st.Append(stacktrace.New(msg, stacktrace.WithInfo("field", field)))
	}
	return st
}
