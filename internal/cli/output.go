package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"trading-discipline/internal/records"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	yamlMode     bool
	colorEnabled bool
}

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command, colorEnabled bool) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	yamlMode, _ := cmd.Flags().GetBool("yaml")
	w := cmd.OutOrStdout()
	return &Output{
		writer:       w,
		jsonMode:     jsonMode,
		yamlMode:     yamlMode && !jsonMode,
		colorEnabled: colorEnabled && !jsonMode && !yamlMode && w == os.Stdout && !color.NoColor,
	}
}

// IsStructured returns true if JSON or YAML output is requested.
func (o *Output) IsStructured() bool {
	return o.jsonMode || o.yamlMode
}

// Structured writes v as JSON or YAML, whichever was requested.
func (o *Output) Structured(v interface{}) error {
	if o.yamlMode {
		return records.EncodeYAML(o.writer, v)
	}
	return records.Encode(o.writer, v)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

func (o *Output) paint(c *color.Color, format string, args ...interface{}) string {
	if o.colorEnabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprintf(format, args...)
}

func (o *Output) line(c *color.Color, format string, args ...interface{}) {
	fmt.Fprintln(o.writer, o.paint(c, format, args...))
}

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
	faint  = color.New(color.Faint)
	alarm  = color.New(color.FgWhite, color.BgRed, color.Bold)
)

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) { o.line(green, format, args...) }

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) { o.line(red, format, args...) }

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) { o.line(yellow, format, args...) }

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) { o.line(cyan, format, args...) }

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) { o.line(bold, format, args...) }

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) { o.line(faint, format, args...) }

// Alarm prints a banner for conditions that need action now.
func (o *Output) Alarm(format string, args ...interface{}) { o.line(alarm, format, args...) }

// Green returns green colored text.
func (o *Output) Green(s string) string { return o.paint(green, "%s", s) }

// Red returns red colored text.
func (o *Output) Red(s string) string { return o.paint(red, "%s", s) }

// Yellow returns yellow colored text.
func (o *Output) Yellow(s string) string { return o.paint(yellow, "%s", s) }

// Table wraps a go-pretty writer bound to the output.
type Table struct {
	tw table.Writer
}

// NewTable creates a table with the given title and header.
func (o *Output) NewTable(title string, headers ...interface{}) *Table {
	tw := table.NewWriter()
	tw.SetOutputMirror(o.writer)
	if o.colorEnabled {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	if title != "" {
		tw.SetTitle(title)
	}
	if len(headers) > 0 {
		tw.AppendHeader(table.Row(headers))
	}
	return &Table{tw: tw}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...interface{}) {
	t.tw.AppendRow(table.Row(cells))
}

// AddSeparator draws a rule between row groups.
func (t *Table) AddSeparator() {
	t.tw.AppendSeparator()
}

// AlignRight right-aligns the numbered (1-based) columns.
func (t *Table) AlignRight(columns ...int) {
	configs := make([]table.ColumnConfig, 0, len(columns))
	for _, n := range columns {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	t.tw.SetColumnConfigs(configs)
}

// Render renders the table.
func (t *Table) Render() {
	t.tw.Render()
}
