package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides_Credentials(t *testing.T) {
	t.Run("WIRO_KEY and WIRO_SECRET fill empty config", func(t *testing.T) {
		clearWiroEnv(t)
		t.Setenv("WIRO_KEY", "env-key")
		t.Setenv("WIRO_SECRET", "env-secret")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "env-key", cfg.API.Key)
		assert.Equal(t, "env-secret", cfg.API.Secret)
	})

	t.Run("environment beats file values", func(t *testing.T) {
		clearWiroEnv(t)
		t.Setenv("WIRO_KEY", "env-key")

		cfg := &Config{API: APIConfig{Key: "file-key", Secret: "file-secret"}}
		cfg.applyEnvOverrides()

		assert.Equal(t, "env-key", cfg.API.Key)
		assert.Equal(t, "file-secret", cfg.API.Secret, "unset variables leave file values alone")
	})
}

func TestEnvOverrides_Endpoint(t *testing.T) {
	clearWiroEnv(t)
	t.Setenv("WIRO_BASE_URL", "http://localhost:9999/v1")
	t.Setenv("WIRO_TOOL_SLUG", "wiro/chat")
	t.Setenv("WIRO_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "http://localhost:9999/v1", cfg.API.BaseURL)
	assert.Equal(t, "wiro/chat", cfg.API.ToolSlug)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEnvOverrides_PollAttempts(t *testing.T) {
	t.Run("valid number", func(t *testing.T) {
		clearWiroEnv(t)
		t.Setenv("WIRO_POLL_MAX_ATTEMPTS", "7")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, 7, cfg.Poll.MaxAttempts)
	})

	t.Run("garbage is ignored", func(t *testing.T) {
		clearWiroEnv(t)
		t.Setenv("WIRO_POLL_MAX_ATTEMPTS", "lots")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, DefaultMaxAttempts, cfg.Poll.MaxAttempts)
	})
}

func TestLoad_AppliesEnvWithoutFile(t *testing.T) {
	clearWiroEnv(t)
	t.Setenv("WIRO_KEY", "k")
	t.Setenv("WIRO_SECRET", "s")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "k", cfg.API.Key)
}
