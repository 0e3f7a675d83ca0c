package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string          `yaml:"level"`       // debug, info, warn, error
	Format      string          `yaml:"format"`      // console, json
	Outputs     []string        `yaml:"outputs"`     // stdout, stderr, "file" (rotation.filename) or a path
	Development bool            `yaml:"development"` // colored levels, dev stack traces
	Rotation    RotationConfig  `yaml:"rotation"`
	Categories  map[string]bool `yaml:"categories"` // Per-category toggles
}

// RotationConfig controls rotation of file outputs.
type RotationConfig struct {
	Enable     bool   `yaml:"enable"`
	Filename   string `yaml:"filename"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Categories not listed are enabled.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}
