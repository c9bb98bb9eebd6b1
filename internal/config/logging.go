package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" validate:"oneof=debug info warn error"`
	Format     string          `yaml:"format" validate:"oneof=json text console"`
	Categories map[string]bool `yaml:"categories"` // Per-category toggles
}
