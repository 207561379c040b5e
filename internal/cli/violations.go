package cli

import (
	"github.com/spf13/cobra"

	"trading-discipline/internal/engine"
	"trading-discipline/internal/models"
	"trading-discipline/internal/records"
	"trading-discipline/internal/violation"
	"trading-discipline/pkg/utils"
)

func addViolationCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newViolationsCmd(app))
	rootCmd.AddCommand(newBatchCmd(app))
}

// violationReport is the structured form of the violations command.
type violationReport struct {
	TradeID    string             `json:"tradeId,omitempty" yaml:"tradeId,omitempty"`
	Symbol     string             `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Status     models.TradeStatus `json:"status" yaml:"status"`
	Violations []models.Violation `json:"violations" yaml:"violations"`
	Cost       float64            `json:"cost" yaml:"cost"`
}

func newViolationsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "violations <trade-file>",
		Short: "Compare a trade against its plan",
		Long: `Detect every deviation between a trade and its plan (entry price, position
size, stop-loss, take-profit, holding time) and estimate what it cost.`,
		Example: "  discipline violations trade.yaml\n  discipline violations trade.json --json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			trade, err := load(app, cmd, args[0], records.KindTrade, records.DecodeTrade)
			if err != nil {
				return err
			}

			annotated := app.Engine.AnnotateTrade(trade)
			report := violationReport{
				TradeID:    trade.ID,
				Symbol:     trade.Symbol,
				Status:     trade.Status,
				Violations: annotated.Violations,
				Cost:       annotated.ViolationCost,
			}
			if output.IsStructured() {
				return output.Structured(report)
			}
			printViolations(output, report)
			return nil
		},
	}
}

func printViolations(output *Output, r violationReport) {
	title := "Trade"
	if r.TradeID != "" {
		title += " " + r.TradeID
	}
	if r.Symbol != "" {
		title += " (" + r.Symbol + ")"
	}
	output.Bold("%s [%s]", title, r.Status)

	if len(r.Violations) == 0 {
		output.Success("✓ Trade followed its plan")
		return
	}

	t := output.NewTable("", "Rule", "Severity", "Planned", "Actual", "Detail")
	for _, v := range r.Violations {
		t.AddRow(
			violation.Label(v.Type),
			output.SeverityText(v.Severity),
			utils.FormatPrice(v.PlannedValue),
			utils.FormatPrice(v.ActualValue),
			TruncateString(v.Description, 48),
		)
	}
	t.AlignRight(3, 4)
	t.Render()

	if r.Cost > 0 {
		output.Error("Estimated cost of violations: %s", utils.FormatAmount(r.Cost))
	} else {
		output.Warning("Violations found, no measurable cost")
	}
}

func newBatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <trades-file>",
		Short: "Check many trades against their plans",
		Long: `Evaluate a list of trades concurrently. Results keep the input order. The
number of trades evaluated at once and the overall timeout come from [engine].`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			trades, err := load(app, cmd, args[0], records.KindTrades, records.DecodeTrades)
			if err != nil {
				return err
			}

			results, err := app.Engine.DetectBatch(cmd.Context(), trades)
			if err != nil {
				return err
			}
			if output.IsStructured() {
				return output.Structured(results)
			}
			printBatch(output, results)
			return nil
		},
	}
}

func printBatch(output *Output, results []engine.BatchResult) {
	if len(results) == 0 {
		output.Info("No trades to evaluate")
		return
	}

	t := output.NewTable("Batch evaluation", "#", "Trade", "Symbol", "Violations", "Worst", "Cost")
	var total float64
	flagged := 0
	for _, r := range results {
		worst := "-"
		if len(r.Violations) > 0 {
			flagged++
			worst = output.SeverityText(worstSeverity(r.Violations))
		}
		total += r.Cost
		t.AddRow(r.Index+1, r.TradeID, r.Symbol, len(r.Violations), worst, utils.FormatAmount(r.Cost))
	}
	t.AddSeparator()
	t.AddRow("", "", "", flagged, "", utils.FormatAmount(total))
	t.AlignRight(1, 4, 6)
	t.Render()
}

func worstSeverity(vs []models.Violation) models.Severity {
	rank := map[models.Severity]int{models.SeverityLow: 1, models.SeverityMedium: 2, models.SeverityHigh: 3}
	worst := models.SeverityLow
	for _, v := range vs {
		if rank[v.Severity] > rank[worst] {
			worst = v.Severity
		}
	}
	return worst
}
