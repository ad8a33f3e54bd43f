package dictcmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// readDraftFile loads a YAML (or JSON) draft document without interpreting it.
func readDraftFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft file: %w", err)
	}
	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse draft file %s: %w", path, err)
	}
	return doc, nil
}
