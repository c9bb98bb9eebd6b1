package config

// GenerationConfig holds the defaults for dataset generation requests.
type GenerationConfig struct {
	Rows      int    `yaml:"rows" validate:"gte=0"`
	Uniform   bool   `yaml:"uniform"`
	Hidden    int    `yaml:"hidden" validate:"gte=0"`
	Seed      uint64 `yaml:"seed"` // 0 seeds from the clock
	OutputDir string `yaml:"output_dir" validate:"required"`
}
