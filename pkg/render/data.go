package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/systemstart/ttgen/pkg/api"
	"gopkg.in/yaml.v3"
)

// LoadData reads a structured data file. The format is chosen by extension.
func LoadData(path string) (any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, api.IOError(fmt.Errorf("reading data file: %w", err))
	}

	var data any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case api.FormatJSON:
		err = json.Unmarshal(content, &data)
	case api.FormatYAML, api.FormatYML:
		err = yaml.Unmarshal(content, &data)
	case api.FormatTOML:
		var table map[string]any
		err = toml.Unmarshal(content, &table)
		data = table
	default:
		err = fmt.Errorf("unsupported data format %q", ext)
	}
	if err != nil {
		return nil, api.ParseError(fmt.Errorf("parsing data file %s: %w", path, err))
	}

	return data, nil
}
