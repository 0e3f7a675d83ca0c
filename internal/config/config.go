package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"wirotask/internal/auth/signing"
)

// Default values for the Wiro API.
const (
	DefaultBaseURL      = "https://api.wiro.ai/v1"
	DefaultToolSlug     = "wiro/text-to-image-hidreamai-i1"
	DefaultTimeout      = 120 * time.Second
	DefaultMaxAttempts  = 60
	DefaultPollInterval = 2 * time.Second
)

// Config holds all wirotask configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Poll    PollConfig    `yaml:"poll"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the Wiro endpoint and credentials.
type APIConfig struct {
	BaseURL  string `yaml:"base_url"`
	ToolSlug string `yaml:"tool_slug"`
	Key      string `yaml:"key"`
	Secret   string `yaml:"secret"`
	Timeout  string `yaml:"timeout"`
}

// PollConfig configures the status poll loop.
type PollConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Interval    string `yaml:"interval"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:  DefaultBaseURL,
			ToolSlug: DefaultToolSlug,
			Timeout:  DefaultTimeout.String(),
		},
		Poll: PollConfig{
			MaxAttempts: DefaultMaxAttempts,
			Interval:    DefaultPollInterval.String(),
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				Enable:     false,
				Filename:   "logs/wiro.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Credentials may be inside; keep the file private.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("WIRO_KEY"); key != "" {
		c.API.Key = key
	}
	if secret := os.Getenv("WIRO_SECRET"); secret != "" {
		c.API.Secret = secret
	}
	if url := os.Getenv("WIRO_BASE_URL"); url != "" {
		c.API.BaseURL = url
	}
	if slug := os.Getenv("WIRO_TOOL_SLUG"); slug != "" {
		c.API.ToolSlug = slug
	}
	if level := os.Getenv("WIRO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if n := os.Getenv("WIRO_POLL_MAX_ATTEMPTS"); n != "" {
		if v, err := strconv.Atoi(n); err == nil {
			c.Poll.MaxAttempts = v
		}
	}
}

// GetTimeout returns the HTTP timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return DefaultTimeout
	}
	return d
}

// GetPollInterval returns the delay between poll attempts.
func (c *Config) GetPollInterval() time.Duration {
	d, err := time.ParseDuration(c.Poll.Interval)
	if err != nil {
		return DefaultPollInterval
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	creds := signing.Credentials{Key: c.API.Key, Secret: c.API.Secret}
	if err := creds.Validate(); err != nil {
		return fmt.Errorf("Wiro credentials not configured (set WIRO_KEY and WIRO_SECRET): %w", err)
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if strings.TrimSpace(c.API.ToolSlug) == "" {
		return fmt.Errorf("api.tool_slug must not be empty")
	}
	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return fmt.Errorf("invalid api.timeout %q: %w", c.API.Timeout, err)
		}
	}
	if c.Poll.MaxAttempts <= 0 {
		return fmt.Errorf("poll.max_attempts must be positive, got %d", c.Poll.MaxAttempts)
	}
	if c.Poll.Interval != "" {
		d, err := time.ParseDuration(c.Poll.Interval)
		if err != nil {
			return fmt.Errorf("invalid poll.interval %q: %w", c.Poll.Interval, err)
		}
		if d < 0 {
			return fmt.Errorf("poll.interval must not be negative")
		}
	}
	return nil
}
