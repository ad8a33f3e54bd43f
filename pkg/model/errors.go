package model

import (
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// GeneralField is the key for messages not attached to a particular field.
const GeneralField = "__all__"

// FieldErrors maps field names to human-readable messages, preserving insertion order.
type FieldErrors struct {
	fields *orderedmap.OrderedMap[string, string]
}

func NewFieldErrors() *FieldErrors {
	return &FieldErrors{fields: orderedmap.New[string, string]()}
}

// GeneralError builds a FieldErrors holding a single general message.
func GeneralError(msg string) *FieldErrors {
	e := NewFieldErrors()
	e.Set(GeneralField, msg)
	return e
}

func (e *FieldErrors) Set(field, msg string) {
	if e.fields == nil {
		e.fields = orderedmap.New[string, string]()
	}
	e.fields.Set(field, msg)
}

// SetIfAbsent keeps the first message recorded for a field.
func (e *FieldErrors) SetIfAbsent(field, msg string) {
	if _, ok := e.Get(field); ok {
		return
	}
	e.Set(field, msg)
}

func (e *FieldErrors) Get(field string) (string, bool) {
	if e == nil || e.fields == nil {
		return "", false
	}
	return e.fields.Get(field)
}

func (e *FieldErrors) General() string {
	msg, _ := e.Get(GeneralField)
	return msg
}

func (e *FieldErrors) Len() int {
	if e == nil || e.fields == nil {
		return 0
	}
	return e.fields.Len()
}

func (e *FieldErrors) Empty() bool {
	return e.Len() == 0
}

// Fields returns field names in the order they were recorded.
func (e *FieldErrors) Fields() []string {
	if e.Len() == 0 {
		return nil
	}
	out := make([]string, 0, e.fields.Len())
	for pair := e.fields.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func (e *FieldErrors) Map() map[string]string {
	out := make(map[string]string, e.Len())
	if e.Len() == 0 {
		return out
	}
	for pair := e.fields.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

func (e *FieldErrors) Clone() *FieldErrors {
	if e == nil {
		return nil
	}
	c := NewFieldErrors()
	for _, field := range e.Fields() {
		msg, _ := e.Get(field)
		c.Set(field, msg)
	}
	return c
}

func (e *FieldErrors) String() string {
	parts := make([]string, 0, e.Len())
	for _, field := range e.Fields() {
		msg, _ := e.Get(field)
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

func (e *FieldErrors) MarshalJSON() ([]byte, error) {
	if e.Len() == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(e.fields)
}
