package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/openconceptlab/ocladmin/pkg/model"
)

// Error is returned for rejected requests and transport failures.
// StatusCode is zero when the request never got a response.
type Error struct {
	StatusCode int
	RequestID  string
	Fields     *model.FieldErrors
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %s", e.Fields.String())
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Fields.String())
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *Error) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// FieldErrors extracts the per-field messages of err, falling back to a general message.
func FieldErrors(err error) *model.FieldErrors {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && !apiErr.Fields.Empty() {
		return apiErr.Fields.Clone()
	}
	return model.GeneralError(err.Error())
}

func transportError(requestID string, err error) *Error {
	return &Error{
		RequestID: requestID,
		Fields:    model.GeneralError(err.Error()),
		Err:       err,
	}
}

// dictionaryFields maps backend attribute names onto draft fields.
var dictionaryFields = map[string]string{
	"name":              "dictionaryName",
	"full_name":         "dictionaryName",
	"id":                "shortCode",
	"short_code":        "shortCode",
	"mnemonic":          "shortCode",
	"description":       "description",
	"preferred_source":  "preferredSource",
	"owner":             "owner",
	"public_access":     "visibility",
	"default_locale":    "preferredLanguage",
	"supported_locales": "otherLanguages",
}

var generalKeys = map[string]struct{}{
	"detail":           {},
	"non_field_errors": {},
	"errors":           {},
	"message":          {},
	model.GeneralField: {},
}

// parseErrorBody understands {"field": ["msg", ...]}, {"detail": "msg"}, JSON strings and plain text.
func parseErrorBody(status int, body []byte, fields map[string]string) *model.FieldErrors {
	errs := model.NewFieldErrors()

	if gjson.ValidBytes(body) {
		res := gjson.ParseBytes(body)
		switch {
		case res.IsObject():
			res.ForEach(func(key, value gjson.Result) bool {
				msg := firstMessage(value)
				if msg == "" {
					return true
				}
				k := key.String()
				if _, ok := generalKeys[k]; ok {
					errs.SetIfAbsent(model.GeneralField, msg)
					return true
				}
				if mapped, ok := fields[k]; ok {
					k = mapped
				}
				errs.SetIfAbsent(k, msg)
				return true
			})
		case res.IsArray(), res.Type == gjson.String:
			if msg := firstMessage(res); msg != "" {
				errs.Set(model.GeneralField, msg)
			}
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 {
		errs.Set(model.GeneralField, text)
	}

	if errs.Empty() {
		errs.Set(model.GeneralField, http.StatusText(status))
	}
	return errs
}

func firstMessage(v gjson.Result) string {
	switch {
	case v.IsArray():
		for _, item := range v.Array() {
			if msg := firstMessage(item); msg != "" {
				return msg
			}
		}
		return ""
	case v.IsObject():
		if m := v.Get("message"); m.Exists() {
			return m.String()
		}
		return v.Raw
	default:
		return strings.TrimSpace(v.String())
	}
}
