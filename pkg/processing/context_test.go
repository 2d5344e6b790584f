package processing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/systemstart/ttgen/pkg/api"
)

func TestLoadContextFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "context.yaml")
	if err := os.WriteFile(f, []byte("project: ttgen\nversion: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, err := LoadContextFile(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx["project"] != "ttgen" {
		t.Errorf("expected project=ttgen, got %v", ctx["project"])
	}
	if ctx["version"] != 3 {
		t.Errorf("expected version=3, got %v", ctx["version"])
	}
}

func TestLoadContextFile_Empty(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "context.yaml")
	if err := os.WriteFile(f, []byte(""), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, err := LoadContextFile(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx == nil || len(ctx) != 0 {
		t.Errorf("expected empty non-nil map, got %v", ctx)
	}
}

func TestLoadContextFile_Errors(t *testing.T) {
	_, err := LoadContextFile("/nonexistent/context.yaml")
	if kind, _ := api.KindOf(err); kind != api.KindIO {
		t.Errorf("expected io error, got %v", err)
	}

	f := filepath.Join(t.TempDir(), "context.yaml")
	if err := os.WriteFile(f, []byte("{{invalid"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = LoadContextFile(f)
	if kind, _ := api.KindOf(err); kind != api.KindParse {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestMergeContext(t *testing.T) {
	global := map[string]any{"a": "global", "b": "global"}

	tests := []struct {
		name   string
		global map[string]any
		data   any
		want   any
	}{
		{"data overrides", global, map[string]any{"b": "data", "c": "data"},
			map[string]any{"a": "global", "b": "data", "c": "data"}},
		{"no global", nil, map[string]any{"x": 1}, map[string]any{"x": 1}},
		{"non-map data", global, []any{"x"}, []any{"x"}},
		{"nil data", global, nil, map[string]any{"a": "global", "b": "global"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeContext(tt.global, tt.data)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("merge mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if global["b"] != "global" {
		t.Error("MergeContext must not modify the global context")
	}
}
