package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"trading-discipline/internal/breaker"
	"trading-discipline/internal/emotion"
	"trading-discipline/internal/exits"
	"trading-discipline/internal/models"
	"trading-discipline/internal/violation"
)

func addRulesCommand(rootCmd *cobra.Command, app *App) {
	var component string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the fixed rule thresholds",
		Long:  "List every threshold the evaluators apply. Thresholds are fixed and cannot be configured.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			rules := AllThresholds()
			if component != "" {
				filtered := rules[:0:0]
				for _, r := range rules {
					if r.Component == component {
						filtered = append(filtered, r)
					}
				}
				rules = filtered
			}
			if output.IsStructured() {
				return output.Structured(rules)
			}

			t := output.NewTable("Rules", "Component", "Rule", "Value", "Unit")
			last := ""
			for _, r := range rules {
				if last != "" && r.Component != last {
					t.AddSeparator()
				}
				last = r.Component
				t.AddRow(r.Component, r.Rule, strconv.FormatFloat(r.Value, 'f', -1, 64), r.Unit)
			}
			t.AlignRight(3)
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&component, "component", "", "only list one component: violation, emotion, exits or breaker")
	rootCmd.AddCommand(cmd)
}

// AllThresholds gathers every component's rule constants.
func AllThresholds() []models.Threshold {
	var out []models.Threshold
	out = append(out, violation.Thresholds()...)
	out = append(out, emotion.Thresholds()...)
	out = append(out, exits.Thresholds()...)
	out = append(out, breaker.Thresholds()...)
	return out
}
