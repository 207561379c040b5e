package cli

import (
	"time"

	"github.com/spf13/cobra"

	"trading-discipline/internal/exits"
	"trading-discipline/internal/models"
	"trading-discipline/internal/records"
	"trading-discipline/pkg/utils"
)

func addExitCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "exit",
		Short: "Exit-level monitoring",
		Long:  "Check stop-loss and take-profit levels, track reaction delays and review how exits were executed.",
	}

	cmd.AddCommand(newStopLossCmd(app))
	cmd.AddCommand(newTakeProfitCmd(app))
	cmd.AddCommand(newDelayCmd(app))
	cmd.AddCommand(newRecordCmd(app))
	cmd.AddCommand(newExitStatsCmd(app))

	rootCmd.AddCommand(cmd)
}

func newStopLossCmd(app *App) *cobra.Command {
	var price, stop float64

	cmd := &cobra.Command{
		Use:   "stop-loss",
		Short: "Check the price against a stop-loss",
		RunE: func(cmd *cobra.Command, args []string) error {
			alert := app.Engine.CheckStopLoss(price, stop)
			return printAlert(app.output(cmd), alert)
		},
	}
	cmd.Flags().Float64Var(&price, "price", 0, "current price")
	cmd.Flags().Float64Var(&stop, "stop", 0, "stop-loss level")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("stop")
	return cmd
}

func newTakeProfitCmd(app *App) *cobra.Command {
	var price, t1, t2, t3 float64

	cmd := &cobra.Command{
		Use:   "take-profit",
		Short: "Check the price against up to three take-profit targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			alert := app.Engine.CheckTakeProfit(price, t1, t2, t3)
			return printAlert(app.output(cmd), alert)
		},
	}
	cmd.Flags().Float64Var(&price, "price", 0, "current price")
	cmd.Flags().Float64Var(&t1, "t1", 0, "first target (0 to skip)")
	cmd.Flags().Float64Var(&t2, "t2", 0, "second target (0 to skip)")
	cmd.Flags().Float64Var(&t3, "t3", 0, "third target (0 to skip)")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func printAlert(output *Output, alert *models.ExitAlert) error {
	if output.IsStructured() {
		return output.Structured(alert)
	}
	if alert == nil {
		output.Success("✓ No exit level reached")
		return nil
	}

	t := output.NewTable("Exit alert", "Field", "Value")
	t.AddRow("Type", alert.Type)
	if alert.Level > 0 {
		t.AddRow("Target", alert.Level)
	}
	t.AddRow("Trigger price", utils.FormatPrice(alert.TriggerPrice))
	t.AddRow("Current price", utils.FormatPrice(alert.CurrentPrice))
	t.AddRow("Urgency", output.UrgencyText(alert.Urgency))
	t.Render()

	if alert.Urgency == models.UrgencyCritical {
		output.Alarm(" %s ", alert.SuggestedAction)
	} else {
		output.Warning("→ %s", alert.SuggestedAction)
	}
	if alert.DelayWarning != "" {
		output.Error("⏱ %s", alert.DelayWarning)
	}
	return nil
}

// alertFlags are shared by commands that describe an already-triggered alert.
type alertFlags struct {
	alertType    string
	triggerPrice float64
	price        float64
	triggeredAt  string
}

func (f *alertFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.alertType, "type", "", "stop_loss or take_profit")
	cmd.Flags().Float64Var(&f.triggerPrice, "trigger-price", 0, "level that was crossed")
	cmd.Flags().Float64Var(&f.price, "price", 0, "current price (default: trigger price)")
	cmd.Flags().StringVar(&f.triggeredAt, "triggered-at", "", "when the level was crossed, RFC3339")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("trigger-price")
	_ = cmd.MarkFlagRequired("triggered-at")
}

func (f *alertFlags) alert() (models.ExitAlert, time.Time, error) {
	var kind models.AlertType
	if err := kind.UnmarshalText([]byte(f.alertType)); err != nil {
		return models.ExitAlert{}, time.Time{}, err
	}
	triggered, err := ParseTime(f.triggeredAt, time.Now().UTC())
	if err != nil {
		return models.ExitAlert{}, time.Time{}, err
	}

	price := f.price
	if price == 0 {
		price = f.triggerPrice
	}
	alert := models.ExitAlert{
		Type:         kind,
		TriggerPrice: f.triggerPrice,
		CurrentPrice: price,
		Urgency:      models.UrgencyMedium,
	}
	if kind == models.AlertStopLoss {
		alert.Urgency = models.UrgencyCritical
		alert.SuggestedAction = "stop-loss triggered: exit the position now"
	} else {
		alert.SuggestedAction = "take-profit target reached: scale out as planned"
	}
	return alert, triggered, nil
}

func newDelayCmd(app *App) *cobra.Command {
	var f alertFlags

	cmd := &cobra.Command{
		Use:   "delay",
		Short: "Warn about an exit that has not been executed yet",
		Example: "  discipline exit delay --type stop_loss --trigger-price 95 --price 94 --triggered-at 2024-03-01T09:30:00Z",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			alert, triggered, err := f.alert()
			if err != nil {
				return err
			}
			warned := app.Engine.AttachDelayWarning(alert, triggered)
			delay := time.Now().UTC().Sub(triggered)
			advice := exits.Advice(warned, int64(delay/time.Second))

			if output.IsStructured() {
				return output.Structured(struct {
					Alert        models.ExitAlert `json:"alert" yaml:"alert"`
					DelaySeconds int64            `json:"delaySeconds" yaml:"delaySeconds"`
					Advice       []string         `json:"advice" yaml:"advice"`
				}{warned, int64(delay / time.Second), advice})
			}

			output.Bold("Pending for %s", FormatDuration(delay.Truncate(time.Second)))
			if err := printAlert(output, &warned); err != nil {
				return err
			}
			output.Println()
			for _, line := range advice {
				output.Info("• %s", line)
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newRecordCmd(app *App) *cobra.Command {
	var (
		f              alertFlags
		planID         string
		executed       bool
		executionPrice float64
		reason         string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Build an execution record for a triggered exit",
		Long: `Build the audit record describing how a triggered exit was handled. The
record is printed, not stored; keep it with your other execution records and
feed them to "exit stats".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			alert, triggered, err := f.alert()
			if err != nil {
				return err
			}
			var px *float64
			if cmd.Flags().Changed("execution-price") {
				px = &executionPrice
			}

			rec := app.Engine.BuildExecutionRecord(planID, alert, triggered, executed, px, reason)
			if output.IsStructured() {
				return output.Structured(rec)
			}
			output.Dim("Record %s", rec.ID)
			output.Println(exits.ExecutionReport(rec))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&planID, "plan", "", "plan the exit belongs to")
	cmd.Flags().BoolVar(&executed, "executed", false, "the exit was executed now")
	cmd.Flags().Float64Var(&executionPrice, "execution-price", 0, "fill price")
	cmd.Flags().StringVar(&reason, "reason", "", "why the exit was not executed")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func newExitStatsCmd(app *App) *cobra.Command {
	var report bool

	cmd := &cobra.Command{
		Use:   "stats <records-file>",
		Short: "Summarize how triggered exits were executed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			recs, err := load(app, cmd, args[0], records.KindExecutions, records.DecodeExecutions)
			if err != nil {
				return err
			}
			stats := app.Engine.SummarizeExecutions(recs)
			if output.IsStructured() {
				return output.Structured(stats)
			}

			t := output.NewTable("Exit execution", "Metric", "Value")
			t.AddRow("Triggered", stats.TotalTriggered)
			t.AddRow("Executed", stats.TotalExecuted)
			t.AddRow("Stop-loss execution rate", utils.FormatRate(stats.StopLossExecutionRate))
			t.AddRow("Take-profit execution rate", utils.FormatRate(stats.TakeProfitExecutionRate))
			t.AddRow("Average delay", FormatDuration(time.Duration(stats.AverageDelay*float64(time.Second)).Truncate(time.Second)))
			t.AlignRight(2)
			t.Render()

			if missed := missedStops(recs); missed > 0 {
				output.Warning("%d stop-loss exits were not executed", missed)
			}
			if report {
				for _, r := range recs {
					output.Println()
					output.Println(exits.ExecutionReport(r))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&report, "report", false, "print every record")
	return cmd
}

func missedStops(recs []models.ExecutionRecord) int {
	n := 0
	for _, r := range recs {
		if r.Type == models.AlertStopLoss && !r.Executed {
			n++
		}
	}
	return n
}
