// Package logging provides structured logging functionality.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"trading-discipline/internal/models"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days

	// Output overrides the console destination. Defaults to stderr so
	// command output on stdout stays machine-readable.
	Output io.Writer `mapstructure:"-" json:"-" yaml:"-"`
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       false,
		FilePath:   filepath.Join(home, ".config", "trading-discipline", "logs", "discipline.log"),
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.Output != nil,
		})
	}

	// File writer with rotation
	if cfg.File && cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = io.Discard
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(writer).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level. Unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// ValidLevel reports whether ParseLevel recognizes level.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
		return true
	}
	return false
}

// ContextKey is the type for context keys.
type ContextKey string

const (
	// LoggerKey is the context key for the logger.
	LoggerKey ContextKey = "logger"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// WithSymbol adds a symbol to the logger context.
func WithSymbol(logger zerolog.Logger, symbol string) zerolog.Logger {
	if symbol == "" {
		return logger
	}
	return logger.With().Str("symbol", symbol).Logger()
}

// WithTradeID adds a trade ID to the logger context.
func WithTradeID(logger zerolog.Logger, tradeID string) zerolog.Logger {
	if tradeID == "" {
		return logger
	}
	return logger.With().Str("trade_id", tradeID).Logger()
}

// WithOperation adds an operation name to the logger context.
func WithOperation(logger zerolog.Logger, operation string) zerolog.Logger {
	return logger.With().Str("operation", operation).Logger()
}

// WithEvaluationID adds an evaluation ID to the logger context.
func WithEvaluationID(logger zerolog.Logger, id string) zerolog.Logger {
	return logger.With().Str("evaluation_id", id).Logger()
}

// LogViolations logs the outcome of a violation check.
func LogViolations(logger zerolog.Logger, violations []models.Violation, cost float64) {
	if len(violations) == 0 {
		logger.Debug().Str("event", "violations").Msg("No plan violations")
		return
	}
	types := make([]string, 0, len(violations))
	for _, v := range violations {
		types = append(types, string(v.Type))
	}
	logger.Info().
		Str("event", "violations").
		Int("count", len(violations)).
		Strs("types", types).
		Float64("cost", cost).
		Msg("Plan violations detected")
}

// LogEmotion logs an emotional-risk score.
func LogEmotion(logger zerolog.Logger, score models.EmotionScore) {
	event := logger.Info()
	if score.ShouldBlock {
		event = logger.Warn()
	}
	event.
		Str("event", "emotion").
		Int("total", score.Total).
		Str("level", string(score.Level)).
		Bool("should_block", score.ShouldBlock).
		Msg("Emotional risk scored")
}

// LogAlert logs an exit alert.
func LogAlert(logger zerolog.Logger, alert *models.ExitAlert) {
	if alert == nil {
		logger.Debug().Str("event", "exit_alert").Msg("No exit alert")
		return
	}
	logger.Info().
		Str("event", "exit_alert").
		Str("type", string(alert.Type)).
		Int("level", alert.Level).
		Str("urgency", string(alert.Urgency)).
		Float64("trigger_price", alert.TriggerPrice).
		Float64("current_price", alert.CurrentPrice).
		Msg("Exit alert raised")
}

// LogBreaker logs a circuit breaker evaluation.
func LogBreaker(logger zerolog.Logger, state models.CircuitBreakerState) {
	event := logger.Info()
	if state.Status == models.BreakerLocked {
		event = logger.Warn()
	}
	event.
		Str("event", "breaker").
		Str("status", string(state.Status)).
		Int("consecutive_losses", state.ConsecutiveLosses).
		Int("losses_until_lock", state.LossesUntilLock).
		Float64("win_rate", state.WinRate).
		Msg("Circuit breaker evaluated")
}

// LogDuration logs how long an operation took.
func LogDuration(logger zerolog.Logger, operation string, duration time.Duration, err error) {
	event := logger.Debug().
		Str("event", "timing").
		Str("operation", operation).
		Dur("duration", duration)

	if err != nil {
		event.Err(err).Msg("Operation failed")
	} else {
		event.Msg("Operation completed")
	}
}
