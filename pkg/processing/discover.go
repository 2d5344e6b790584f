package processing

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/systemstart/ttgen/pkg/api"
)

const manifestBasename = ".ttgen"

var manifestFilenames = []string{
	manifestBasename + api.FormatJSON,
	manifestBasename + api.FormatYAML,
	manifestBasename + api.FormatYML,
	manifestBasename + api.FormatTOML,
}

// DiscoverManifests walks root looking for .ttgen.{json,yaml,yml,toml} files
// up to maxDepth. A maxDepth of -1 means unlimited. 0 means only root itself.
// Results are sorted by path depth (parents before children).
func DiscoverManifests(root string, maxDepth int) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, api.IOError(fmt.Errorf("resolving root path: %w", err))
	}

	paths, err := collectManifestPaths(absRoot, maxDepth)
	if err != nil {
		return nil, api.IOError(err)
	}

	slices.SortStableFunc(paths, func(a, b string) int {
		return pathDepth(a) - pathDepth(b)
	})

	return paths, nil
}

func collectManifestPaths(absRoot string, maxDepth int) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk error at %s: %w", path, err)
		}

		if d.IsDir() && maxDepth >= 0 {
			rel, relErr := filepath.Rel(absRoot, path)
			if relErr != nil {
				return fmt.Errorf("computing relative path for %s: %w", path, relErr)
			}
			if pathDepth(rel) > maxDepth {
				return filepath.SkipDir
			}
		}

		if !d.IsDir() && slices.Contains(manifestFilenames, d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory tree: %w", err)
	}
	return paths, nil
}

func pathDepth(p string) int {
	if p == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(p), "/") + 1
}
