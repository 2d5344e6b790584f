package api

const (
	FormatJSON = ".json"
	FormatYAML = ".yaml"
	FormatYML  = ".yml"
	FormatTOML = ".toml"
)

// TemplateSpec is one unit of templated generation: a data file rendered
// through a template file into an optional output file.
//
// Values are treated as immutable; methods take value receivers and
// Resolve returns a copy. An empty Output means no output path was declared.
type TemplateSpec struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Data     string `json:"data" yaml:"data" toml:"data"`
	Template string `json:"template" yaml:"template" toml:"template"`
	Output   string `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty"`
}

// Manifest is a declared set of template specs. JSON and YAML manifests are
// a top-level list of specs, TOML manifests use [[spec]] tables.
type Manifest struct {
	Specs []TemplateSpec `toml:"spec"`

	// Set by the loader, not from the file.
	Dir      string `toml:"-"`
	FilePath string `toml:"-"`
}
