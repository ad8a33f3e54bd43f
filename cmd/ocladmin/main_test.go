package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openconceptlab/ocladmin/pkg/model"
)

func TestNewLogger(t *testing.T) {
	fields := model.NewFieldErrors()
	fields.Set("shortCode", "taken")
	fields.Set(model.GeneralField, "try again")

	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelInfo, false)
	logger.Debug("hidden")
	logger.Warn("Dictionary was not created", slog.Any("errors", fields), slog.Any("locales", []string{"en", "fr"}))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "Dictionary was not created")
	require.Contains(t, out, `"errors": "shortCode: taken; __all__: try again"`)
	require.Contains(t, out, `"locales": "en,fr"`)
}
