// Package config provides configuration management for the discipline engine.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	apperrors "trading-discipline/internal/errors"
	"trading-discipline/internal/logging"
)

// ConfigFileName is the base name of the TOML config file.
const ConfigFileName = "config"

// Config holds all application configuration.
// Rule thresholds are fixed per component and are deliberately absent here.
type Config struct {
	Engine  EngineConfig      `mapstructure:"engine"`
	Logging logging.LogConfig `mapstructure:"logging"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
	Input   InputConfig       `mapstructure:"input"`
	UI      UIConfig          `mapstructure:"ui"`

	// Dir is the directory the config was loaded from.
	Dir string `mapstructure:"-"`
}

// EngineConfig holds evaluation settings.
type EngineConfig struct {
	BreakerWindow    int           `mapstructure:"breaker_window"`
	BatchConcurrency int           `mapstructure:"batch_concurrency"`
	BatchTimeout     time.Duration `mapstructure:"batch_timeout"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	// Textfile, when set, receives a text-format dump after each command.
	Textfile string `mapstructure:"textfile"`
}

// InputConfig holds record decoding settings.
type InputConfig struct {
	DefaultFormat string `mapstructure:"default_format"` // json, yaml, csv
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	TimeFormat   string `mapstructure:"time_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trading-discipline"
	}
	return filepath.Join(home, ".config", "trading-discipline")
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			BreakerWindow:    10,
			BatchConcurrency: 4,
			BatchTimeout:     30 * time.Second,
		},
		Logging: logging.DefaultLogConfig(),
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "discipline",
		},
		Input: InputConfig{DefaultFormat: "json"},
		UI: UIConfig{
			ColorEnabled: true,
			TimeFormat:   "2006-01-02 15:04:05",
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
// A missing config file is replaced by a commented template.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	if err := loadDotEnv(configDir); err != nil {
		return nil, apperrors.Wrap(err, "loading .env")
	}

	cfg, err := loadConfigFile(configDir)
	if err != nil {
		return nil, apperrors.Wrapf(err, "loading %s.toml", ConfigFileName)
	}
	cfg.Dir = configDir

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Path returns the config file path inside configDir.
func Path(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, ConfigFileName+".toml")
}

// loadDotEnv reads an optional .env from the config dir and then the working
// directory. Existing environment variables win.
func loadDotEnv(configDir string) error {
	for _, path := range []string{filepath.Join(configDir, ".env"), ".env"} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func loadConfigFile(configDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg, viper.DecodeHook(decodeHook())); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("engine.breaker_window", d.Engine.BreakerWindow)
	v.SetDefault("engine.batch_concurrency", d.Engine.BatchConcurrency)
	v.SetDefault("engine.batch_timeout", d.Engine.BatchTimeout.String())

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.console", d.Logging.Console)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.file_path", d.Logging.FilePath)
	v.SetDefault("logging.max_size", d.Logging.MaxSize)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age", d.Logging.MaxAge)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)

	v.SetDefault("input.default_format", d.Input.DefaultFormat)

	v.SetDefault("ui.color_enabled", d.UI.ColorEnabled)
	v.SetDefault("ui.time_format", d.UI.TimeFormat)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DISCIPLINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DISCIPLINE_INPUT_FORMAT"); v != "" {
		cfg.Input.DefaultFormat = v
	}
	if v := os.Getenv("DISCIPLINE_BREAKER_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: DISCIPLINE_BREAKER_WINDOW=%q", apperrors.ErrConfigInvalid, v)
		}
		cfg.Engine.BreakerWindow = n
	}
	if v := os.Getenv("DISCIPLINE_BATCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: DISCIPLINE_BATCH_CONCURRENCY=%q", apperrors.ErrConfigInvalid, v)
		}
		cfg.Engine.BatchConcurrency = n
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.BreakerWindow < 1 {
		return fmt.Errorf("%w: breaker_window must be at least 1", apperrors.ErrConfigInvalid)
	}
	if c.Engine.BatchConcurrency < 1 {
		return fmt.Errorf("%w: batch_concurrency must be at least 1", apperrors.ErrConfigInvalid)
	}
	if c.Engine.BatchTimeout < 0 {
		return fmt.Errorf("%w: batch_timeout must be non-negative", apperrors.ErrConfigInvalid)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("%w: unknown log level %q", apperrors.ErrConfigInvalid, c.Logging.Level)
	}
	switch c.Input.DefaultFormat {
	case "json", "yaml", "csv":
	default:
		return fmt.Errorf("%w: default_format must be json, yaml or csv, got %q", apperrors.ErrConfigInvalid, c.Input.DefaultFormat)
	}
	return nil
}
