package processing

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/systemstart/ttgen/pkg/api"
)

// SelectSpecs keeps the specs whose name matches any of the patterns.
// With no patterns every spec is selected.
func SelectSpecs(specs []api.TemplateSpec, patterns []string) ([]api.TemplateSpec, error) {
	if len(patterns) == 0 {
		return specs, nil
	}

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, api.ArgumentError(fmt.Errorf("invalid select pattern %q", pattern))
		}
	}

	var selected []api.TemplateSpec
	for _, spec := range specs {
		for _, pattern := range patterns {
			if doublestar.MatchUnvalidated(pattern, spec.Name) {
				selected = append(selected, spec)
				break
			}
		}
	}
	return selected, nil
}
