package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse reads a raw definition document. JSON is tried first; anything that
// is not valid JSON is parsed as YAML.
func Parse(raw []byte) (map[string]any, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, fmt.Errorf("empty definition document")
	}

	doc := make(map[string]any)
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("malformed JSON definition: %w", err)
		}
		return doc, nil
	}

	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("malformed YAML definition: %w", err)
	}
	return doc, nil
}

// ParseDefinition parses, validates, and decodes a raw definition in one
// step. Validation failures come back as an AggregateError listing every
// problem found.
func ParseDefinition(raw []byte) (*Definition, error) {
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return Decode(doc)
}

// ParseFile loads a definition from a .json, .yaml, or .yml file.
func ParseFile(path string) (*Definition, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("unsupported definition file type %q", ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}
	return ParseDefinition(raw)
}
