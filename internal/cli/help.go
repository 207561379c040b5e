package cli

import (
	"github.com/spf13/cobra"
)

// addHelpCommands adds workflow documentation commands.
func addHelpCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExamplesCmd(app))
}

type workflow struct {
	title    string
	commands []string
}

var workflows = []workflow{
	{
		title: "Before entering a trade",
		commands: []string{
			"discipline breaker results.csv                  # Is trading allowed?",
			"discipline emotion --action buy --price 105 \\",
			"    --history aapl.json --recent actions.json   # Am I chasing?",
		},
	},
	{
		title: "While a position is open",
		commands: []string{
			"discipline exit stop-loss --price 94.2 --stop 95",
			"discipline exit take-profit --price 118 --t1 110 --t2 120 --t3 130",
			"discipline exit delay --type stop_loss --trigger-price 95 \\",
			"    --triggered-at 2024-03-01T09:30:00Z         # How late am I?",
		},
	},
	{
		title: "After closing",
		commands: []string{
			"discipline violations trade.yaml                # Did I follow the plan?",
			"discipline batch trades.json                    # Review the whole week",
			"discipline exit stats executions.json --report  # How fast did I exit?",
		},
	},
	{
		title: "After five straight losses",
		commands: []string{
			"discipline breaker questions",
			"discipline breaker unlock results.csv --answers losses_reviewed=true,calm_mind=true,...",
			"discipline breaker results.csv --acknowledged 5 # Keep the review on record",
		},
	},
}

func newExamplesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflow examples",
		Long:  "Display examples of a trading day checked with discipline.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			output.Bold("Common Workflow Examples")
			output.Println()

			for _, w := range workflows {
				output.Info(w.title)
				for _, c := range w.commands {
					output.Printf("  %s\n", c)
				}
				output.Println()
			}
			return nil
		},
	}
}
