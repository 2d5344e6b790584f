package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadManifest reads a manifest file, sets Dir/FilePath, and validates it.
// The format is chosen by file extension.
func LoadManifest(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, IOError(fmt.Errorf("reading manifest file: %w", err))
	}

	m, err := decodeManifest(filepath.Ext(filename), data)
	if err != nil {
		return nil, ParseError(fmt.Errorf("parsing manifest file %s: %w", filename, err))
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, IOError(fmt.Errorf("resolving absolute path: %w", err))
	}
	m.FilePath = absPath
	m.Dir = filepath.Dir(absPath)

	if err := m.Validate(); err != nil {
		return nil, ParseError(fmt.Errorf("validating manifest %s: %w", filename, err))
	}

	return m, nil
}

func decodeManifest(ext string, data []byte) (*Manifest, error) {
	var m Manifest
	switch strings.ToLower(ext) {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m.Specs); err != nil {
			return nil, err
		}
	case FormatYAML, FormatYML:
		if err := yaml.Unmarshal(data, &m.Specs); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", ext)
	}
	return &m, nil
}

// Validate checks the manifest for errors.
func (m *Manifest) Validate() error {
	if len(m.Specs) == 0 {
		return fmt.Errorf("manifest has no specs")
	}

	names := make(map[string]int)

	for i, spec := range m.Specs {
		if spec.Name == "" {
			return fmt.Errorf("spec %d: name is required", i)
		}
		if prev, exists := names[spec.Name]; exists {
			return fmt.Errorf("spec %d: duplicate spec name %q (first defined at spec %d)", i, spec.Name, prev)
		}
		names[spec.Name] = i

		if spec.Data == "" {
			return fmt.Errorf("spec %q: data is required", spec.Name)
		}
		if spec.Template == "" {
			return fmt.Errorf("spec %q: template is required", spec.Name)
		}
	}

	return nil
}
