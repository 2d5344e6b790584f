package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/systemstart/ttgen/pkg/api"
)

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeTestFile(t, dir, "hello.tmpl", "Hello {{ .name }}!")

	out, err := New().RenderFile(tmpl, map[string]any{"name": "world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "Hello world!" {
		t.Fatalf("expected 'Hello world!', got %q", string(out))
	}
}

func TestRenderFile_SprigFunctions(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeTestFile(t, dir, "upper.tmpl", `{{ .name | upper }}-{{ "x" | repeat 3 }}`)

	out, err := New().RenderFile(tmpl, map[string]any{"name": "abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "ABC-xxx" {
		t.Fatalf("expected 'ABC-xxx', got %q", string(out))
	}
}

func TestRenderFile_NonMapData(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeTestFile(t, dir, "list.tmpl", "{{ range . }}[{{ . }}]{{ end }}")

	out, err := New().RenderFile(tmpl, []any{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "[a][b]" {
		t.Fatalf("expected '[a][b]', got %q", string(out))
	}
}

func TestRenderFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		template string
		data     any
		kind     api.Kind
		want     string
	}{
		{"missing template", filepath.Join(dir, "nope.tmpl"), nil, api.KindIO, "reading template"},
		{"compile error", writeTestFile(t, dir, "bad.tmpl", "{{ .x "), nil, api.KindTemplateCompile, "parsing template"},
		{"exec error", writeTestFile(t, dir, "fail.tmpl", `{{ fail "nope" }}`), nil, api.KindRender, "executing template"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().RenderFile(tt.template, tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if kind, _ := api.KindOf(err); kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, kind)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestWriteOutput_CreatesParents(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b", "out.txt")

	if err := WriteOutput(target, []byte("content")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "content" {
		t.Errorf("expected 'content', got %q", string(content))
	}
}

func TestWriteOutput_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := writeTestFile(t, dir, "blocker", "x")

	err := WriteOutput(filepath.Join(blocker, "out.txt"), []byte("y"))
	if err == nil {
		t.Fatal("expected error when parent is a file")
	}
	if kind, _ := api.KindOf(err); kind != api.KindIO {
		t.Errorf("expected io kind, got %v", kind)
	}
}
