package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trading-discipline/internal/errors"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0644))
}

func TestLoad_CreatesTemplate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.FileExists(t, Path(dir))
	assert.Equal(t, 10, cfg.Engine.BreakerWindow)
	assert.Equal(t, 4, cfg.Engine.BatchConcurrency)
	assert.Equal(t, 30*time.Second, cfg.Engine.BatchTimeout)
	assert.Equal(t, "json", cfg.Input.DefaultFormat)
	assert.Equal(t, dir, cfg.Dir)

	// The template must load back cleanly.
	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Engine, again.Engine)
}

func TestLoad_FileValues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[engine]
breaker_window = 20
batch_concurrency = 8
batch_timeout = "2m"

[logging]
level = "debug"

[metrics]
enabled = true
namespace = "desk"

[input]
default_format = "yaml"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Engine.BreakerWindow)
	assert.Equal(t, 8, cfg.Engine.BatchConcurrency)
	assert.Equal(t, 2*time.Minute, cfg.Engine.BatchTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "desk", cfg.Metrics.Namespace)
	assert.Equal(t, "yaml", cfg.Input.DefaultFormat)
	// Unset keys keep their defaults.
	assert.True(t, cfg.Logging.Console)
	assert.True(t, cfg.UI.ColorEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[engine]\nbreaker_window = 10\n")

	t.Setenv("DISCIPLINE_LOG_LEVEL", "warn")
	t.Setenv("DISCIPLINE_BREAKER_WINDOW", "15")
	t.Setenv("DISCIPLINE_BATCH_CONCURRENCY", "2")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 15, cfg.Engine.BreakerWindow)
	assert.Equal(t, 2, cfg.Engine.BatchConcurrency)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DISCIPLINE_BREAKER_WINDOW=7\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("DISCIPLINE_BREAKER_WINDOW") })

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Engine.BreakerWindow)
}

func TestLoad_BadEnvValue(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")
	t.Setenv("DISCIPLINE_BATCH_CONCURRENCY", "many")

	_, err := Load(dir)
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.Engine.BreakerWindow = 0 }},
		{"zero concurrency", func(c *Config) { c.Engine.BatchConcurrency = 0 }},
		{"negative timeout", func(c *Config) { c.Engine.BatchTimeout = -time.Second }},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }},
		{"unknown format", func(c *Config) { c.Input.DefaultFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), apperrors.ErrConfigInvalid)
		})
	}

	assert.NoError(t, Default().Validate())
}
