package api

import (
	"os"
	"path/filepath"
)

// NewUnchecked builds a TemplateSpec without touching the filesystem.
func NewUnchecked(name, data, template, output string) TemplateSpec {
	return TemplateSpec{
		Name:     name,
		Data:     data,
		Template: template,
		Output:   output,
	}
}

// New builds a TemplateSpec and validates that its inputs exist.
// The returned error is a *MissingError.
func New(name, data, template, output string) (TemplateSpec, error) {
	spec := NewUnchecked(name, data, template, output)
	if err := spec.ValidateFiles(); err != nil {
		return TemplateSpec{}, err
	}
	return spec, nil
}

// ValidateFiles reports every missing input at once. The output path is not
// checked since it is what gets (re)generated.
func (s TemplateSpec) ValidateFiles() error {
	dataExists := exists(s.Data)
	templateExists := exists(s.Template)

	if dataExists && templateExists {
		return nil
	}

	var missing []string
	if !templateExists {
		missing = append(missing, "template file: "+s.Template)
	}
	if !dataExists {
		missing = append(missing, "data file: "+s.Data)
	}
	return &MissingError{Files: missing}
}

// HasOutput reports whether an output path was declared.
func (s TemplateSpec) HasOutput() bool { return s.Output != "" }

// Resolve returns a copy with relative paths joined onto dir.
func (s TemplateSpec) Resolve(dir string) TemplateSpec {
	s.Data = resolvePath(dir, s.Data)
	s.Template = resolvePath(dir, s.Template)
	if s.HasOutput() {
		s.Output = resolvePath(dir, s.Output)
	}
	return s
}

func resolvePath(dir, p string) string {
	if dir == "" || p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
