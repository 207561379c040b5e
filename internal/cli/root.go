// Package cli provides the command-line interface for the discipline engine.
package cli

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trading-discipline/internal/config"
	"trading-discipline/internal/engine"
	"trading-discipline/internal/metrics"
	"trading-discipline/internal/records"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Engine   *engine.Engine
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

// NewApp wires the engine from configuration.
func NewApp(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Metrics.Enabled {
		app.Registry = prometheus.NewRegistry()
		m, err := metrics.New(app.Registry, cfg.Metrics.Namespace)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		app.Metrics = m
		logger.Debug().Str("namespace", cfg.Metrics.Namespace).Msg("Metrics enabled")
	}

	app.buildEngine()
	return app, nil
}

func (a *App) buildEngine() {
	a.Engine = engine.New(
		engine.WithLogger(a.Logger),
		engine.WithMetrics(a.Metrics),
		engine.WithBreakerWindow(a.Config.Engine.BreakerWindow),
		engine.WithConcurrency(a.Config.Engine.BatchConcurrency),
		engine.WithBatchTimeout(a.Config.Engine.BatchTimeout),
	)
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app, err := NewApp(cfg, logger)

	rootCmd := &cobra.Command{
		Use:   "discipline",
		Short: "Trading discipline evaluation engine",
		Long: `discipline checks trades against their plans, scores the emotional risk of
a proposed action, monitors exit levels and runs a loss-streak circuit breaker.

Inputs are JSON, YAML or CSV records. Nothing is stored; every command reads
its inputs, evaluates them and prints the verdict.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err != nil {
				return err
			}
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
				app.buildEngine()
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.flushMetrics()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trading-discipline)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("yaml", false, "output in YAML format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("format", "", "input format when the file extension does not say: json, yaml or csv")

	addCoreCommands(rootCmd, app)
	addViolationCommands(rootCmd, app)
	addEmotionCommands(rootCmd, app)
	addExitCommands(rootCmd, app)
	addBreakerCommands(rootCmd, app)
	addRulesCommand(rootCmd, app)
	addHelpCommands(rootCmd, app)

	return rootCmd
}

// output builds an Output honouring the configured color preference.
func (a *App) output(cmd *cobra.Command) *Output {
	return NewOutput(cmd, a.Config.UI.ColorEnabled)
}

// inputFormat returns the --format flag, or the configured default.
func (a *App) inputFormat(cmd *cobra.Command) (records.Format, error) {
	name, _ := cmd.Flags().GetString("format")
	if name == "" {
		name = a.Config.Input.DefaultFormat
	}
	return records.ParseFormat(name)
}

// load decodes the record file at path.
func load[T any](a *App, cmd *cobra.Command, path string, kind records.Kind, fn func(io.Reader, records.Format) (T, error)) (T, error) {
	var zero T
	format, err := a.inputFormat(cmd)
	if err != nil {
		return zero, err
	}
	return records.Load(path, format, kind, fn)
}

// flushMetrics writes the registry to the configured textfile.
func (a *App) flushMetrics() error {
	if a == nil || a.Registry == nil || a.Config.Metrics.Textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.Config.Metrics.Textfile, a.Registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if output.IsStructured() {
				return output.Structured(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("discipline v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if output.IsStructured() {
				return output.Structured(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			path := config.Path(app.Config.Dir)
			if output.IsStructured() {
				return output.Structured(map[string]string{"path": path})
			}
			output.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsStructured() {
				return output.Structured(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	t := output.NewTable("Configuration", "Setting", "Value")
	t.AddRow("engine.breaker_window", cfg.Engine.BreakerWindow)
	t.AddRow("engine.batch_concurrency", cfg.Engine.BatchConcurrency)
	t.AddRow("engine.batch_timeout", cfg.Engine.BatchTimeout)
	t.AddSeparator()
	t.AddRow("logging.level", cfg.Logging.Level)
	t.AddRow("logging.console", cfg.Logging.Console)
	t.AddRow("logging.file", cfg.Logging.File)
	t.AddRow("logging.file_path", cfg.Logging.FilePath)
	t.AddSeparator()
	t.AddRow("metrics.enabled", cfg.Metrics.Enabled)
	t.AddRow("metrics.namespace", cfg.Metrics.Namespace)
	t.AddRow("metrics.textfile", cfg.Metrics.Textfile)
	t.AddSeparator()
	t.AddRow("input.default_format", cfg.Input.DefaultFormat)
	t.AddRow("ui.color_enabled", cfg.UI.ColorEnabled)
	t.Render()
}
