package config

// SolverConfig selects and tunes the model enumeration backend.
type SolverConfig struct {
	Backend    string   `yaml:"backend" validate:"oneof=builtin clingo"` // builtin, clingo
	ClingoPath string   `yaml:"clingo_path"`
	Args       []string `yaml:"args,omitempty"` // extra clingo arguments
	Timeout    string   `yaml:"timeout"`
}
