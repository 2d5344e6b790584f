package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/systemstart/ttgen/pkg/api"
)

// Renderer executes template files against structured data.
type Renderer struct {
	Funcs template.FuncMap
}

// New returns a Renderer with the sprig function map.
func New() *Renderer {
	return &Renderer{Funcs: sprig.FuncMap()}
}

// RenderFile parses the template at templatePath and executes it with data.
// Errors carry api.KindIO, api.KindTemplateCompile or api.KindRender.
func (r *Renderer) RenderFile(templatePath string, data any) ([]byte, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, api.IOError(fmt.Errorf("reading template: %w", err))
	}

	tmpl, err := template.New(filepath.Base(templatePath)).Funcs(r.Funcs).Parse(string(content))
	if err != nil {
		return nil, api.TemplateError(fmt.Errorf("parsing template: %w", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, api.RenderError(fmt.Errorf("executing template: %w", err))
	}

	slog.Debug("template rendered", "template", templatePath, "bytes", buf.Len())
	return buf.Bytes(), nil
}

// WriteOutput writes rendered content to path, creating parent directories.
func WriteOutput(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return api.IOError(fmt.Errorf("creating parent directories: %w", err))
	}

	if err := os.WriteFile(path, content, 0o600); err != nil {
		return api.IOError(fmt.Errorf("writing output file: %w", err))
	}
	return nil
}
