package processing

import (
	"fmt"
	"maps"
	"os"

	"github.com/systemstart/ttgen/pkg/api"
	"gopkg.in/yaml.v3"
)

// LoadContextFile reads a YAML file and returns it as a map.
func LoadContextFile(filename string) (map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, api.IOError(fmt.Errorf("reading context file: %w", err))
	}

	var ctx map[string]any
	if err := yaml.Unmarshal(data, &ctx); err != nil {
		return nil, api.ParseError(fmt.Errorf("parsing context file: %w", err))
	}

	if ctx == nil {
		ctx = make(map[string]any)
	}

	return ctx, nil
}

// MergeContext overlays a spec's data on the global context. Data keys win
// at the top level. Data that is not a map is returned unchanged.
func MergeContext(global map[string]any, data any) any {
	if len(global) == 0 {
		return data
	}

	local, ok := data.(map[string]any)
	if !ok {
		if data == nil {
			return maps.Clone(global)
		}
		return data
	}

	merged := make(map[string]any, len(global)+len(local))
	maps.Copy(merged, global)
	maps.Copy(merged, local)
	return merged
}
