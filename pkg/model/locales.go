package model

import (
	"encoding/json"
	"strings"
)

// LocaleList accepts both a JSON array and a comma separated string.
type LocaleList []string

func (l *LocaleList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var joined *string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*l = SplitLocales(derefString(joined))
	return nil
}

func (l LocaleList) Join() string {
	return strings.Join(l, ",")
}

// SplitLocales splits a comma separated locale list, trimming blanks.
func SplitLocales(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
