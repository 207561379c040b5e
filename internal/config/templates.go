package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trading Discipline Engine configuration
# Rule thresholds are fixed; run "discipline rules" to list them.

[engine]
# Number of most recent trade results the circuit breaker considers
breaker_window = 10
# Trades evaluated in parallel by "discipline batch"
batch_concurrency = 4
# Upper bound for a whole batch (e.g. "30s", "2m")
batch_timeout = "30s"

[logging]
# debug, info, warn, error
level = "info"
console = true
# Rotating file log
file = false
# file_path = "~/.config/trading-discipline/logs/discipline.log"
max_size = 50
max_backups = 5
max_age = 30

[metrics]
enabled = false
namespace = "discipline"
# Write Prometheus text format here after each command
textfile = ""

[input]
# json, yaml or csv when the file extension does not say
default_format = "json"

[ui]
color_enabled = true
time_format = "2006-01-02 15:04:05"
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, ConfigFileName+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
