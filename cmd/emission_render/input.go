package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/emission-renderer/internal/schemas"
	"github.com/jonathan/emission-renderer/internal/types"
)

// readDocument reads a JSON or YAML file and returns it as JSON so both
// formats go through the same schema.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s to JSON: %w", path, err)
		}
		return out, nil
	default:
		return data, nil
	}
}

// loadTemplate reads and validates a template file.
func loadTemplate(path string) (*types.TemplateDocument, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateTemplate(data); err != nil {
		return nil, fmt.Errorf("invalid template %s: %w", path, err)
	}

	var tmpl types.TemplateDocument
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", path, err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid template %s: %w", path, err)
	}
	return &tmpl, nil
}

// loadEmission reads and validates an emission file. An empty path yields
// nil, which renders the template with defaults only.
func loadEmission(path string) (*types.Emission, error) {
	if path == "" {
		return nil, nil
	}
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateEmission(data); err != nil {
		return nil, fmt.Errorf("invalid emission %s: %w", path, err)
	}

	var emission types.Emission
	if err := json.Unmarshal(data, &emission); err != nil {
		return nil, fmt.Errorf("failed to decode emission %s: %w", path, err)
	}
	if err := emission.Validate(); err != nil {
		return nil, fmt.Errorf("invalid emission %s: %w", path, err)
	}
	return &emission, nil
}

// outputPath is out when given, otherwise the suggested filename inside dir.
func outputPath(out, dir, filename string) string {
	if out != "" {
		return out
	}
	return filepath.Join(dir, filename)
}

// writeFile writes data atomically, creating the parent directory.
// Readers never observe a partial file.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
