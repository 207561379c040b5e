package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"trading-discipline/internal/breaker"
	apperrors "trading-discipline/internal/errors"
	"trading-discipline/internal/models"
	"trading-discipline/internal/records"
	"trading-discipline/pkg/utils"
)

func addBreakerCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newBreakerCmd(app))
}

// priorState describes the persisted breaker state a caller passes back in.
type priorState struct {
	status       string
	acknowledged int
}

func (p *priorState) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.status, "status", "", "previous status: NORMAL, WARNING or LOCKED")
	cmd.Flags().IntVar(&p.acknowledged, "acknowledged", 0, "loss streak acknowledged by the last unlock")
}

func (p *priorState) state() (models.CircuitBreakerState, error) {
	var st models.CircuitBreakerState
	if p.status != "" {
		if err := st.Status.UnmarshalText([]byte(p.status)); err != nil {
			return st, err
		}
	}
	if p.acknowledged < 0 {
		return st, fmt.Errorf("%w: --acknowledged must be non-negative", apperrors.ErrInputValidation)
	}
	st.AcknowledgedLosses = p.acknowledged
	return st, nil
}

func newBreakerCmd(app *App) *cobra.Command {
	var prior priorState

	cmd := &cobra.Command{
		Use:   "breaker <results-file>",
		Short: "Evaluate the loss-streak circuit breaker",
		Long: `Evaluate recent trade results, most recent first, against the circuit
breaker. Three straight losses raise a warning and five lock new entries. A
lock persists until a review is passed with "breaker unlock".

Pass the previous status with --status so an existing lock is kept.`,
		Example: "  discipline breaker results.csv\n  discipline breaker results.json --status LOCKED --acknowledged 5",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			prev, err := prior.state()
			if err != nil {
				return err
			}
			results, err := load(app, cmd, args[0], records.KindResults, records.DecodeResults)
			if err != nil {
				return err
			}

			st := app.Engine.AdvanceCircuitBreaker(prev, results)
			if output.IsStructured() {
				return output.Structured(st)
			}
			printBreaker(output, st)
			output.Dim("Net P&L over the window: %s", utils.FormatPnL(netPnL(breaker.Recent(results, st.WindowSize))))
			return nil
		},
	}
	prior.register(cmd)

	cmd.AddCommand(newQuestionsCmd(app))
	cmd.AddCommand(newUnlockCmd(app))
	return cmd
}

func printBreaker(output *Output, st models.CircuitBreakerState) {
	t := output.NewTable("Circuit breaker", "Metric", "Value")
	t.AddRow("Status", output.StatusText(st.Status))
	t.AddRow("Consecutive losses", st.ConsecutiveLosses)
	t.AddRow("Consecutive wins", st.ConsecutiveWins)
	t.AddRow("Win rate", utils.FormatRate(st.WinRate))
	t.AddRow("Profit factor", utils.FormatRatio(st.ProfitFactor, breaker.ProfitFactorCap))
	t.AddRow("Pattern match", fmt.Sprintf("%.0f (%s)", st.PatternMatchScore, breaker.Band(st.PatternMatchScore)))
	if st.AcknowledgedLosses > 0 {
		t.AddRow("Acknowledged losses", st.AcknowledgedLosses)
	}
	t.AddRow("Window", st.WindowSize)
	t.Render()

	switch st.Status {
	case models.BreakerLocked:
		output.Alarm(" LOCKED: no new entries until the review is passed ")
		output.Dim("Run 'discipline breaker questions' and then 'discipline breaker unlock'.")
	case models.BreakerWarning:
		output.Warning("⚠ %d more losses lock trading, reduce size and slow down", st.LossesUntilLock)
	default:
		output.Success("✓ Trading allowed (%d losses until lock)", st.LossesUntilLock)
	}
}

// questionView hides the expected answer.
type questionView struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

func newQuestionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the review questions required to unlock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			qs := breaker.ReviewQuestions()
			views := make([]questionView, len(qs))
			for i, q := range qs {
				views[i] = questionView{ID: q.ID, Text: q.Text}
			}
			if output.IsStructured() {
				return output.Structured(views)
			}

			t := output.NewTable("Review", "ID", "Question")
			for _, v := range views {
				t.AddRow(v.ID, v.Text)
			}
			t.Render()
			output.Dim("Answer with: discipline breaker unlock <results-file> --answers %s=true,...", views[0].ID)
			output.Dim("At least %.0f%% of answers must be honest and correct.", breaker.UnlockPassRatio*100)
			return nil
		},
	}
}

func newUnlockCmd(app *App) *cobra.Command {
	var (
		raw             map[string]string
		reviewCompleted bool
		acknowledged    int
	)

	cmd := &cobra.Command{
		Use:   "unlock <results-file>",
		Short: "Lift a lock after completing the review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			answers, err := ParseAnswers(raw)
			if err != nil {
				return err
			}
			results, err := load(app, cmd, args[0], records.KindResults, records.DecodeResults)
			if err != nil {
				return err
			}

			locked := app.Engine.AdvanceCircuitBreaker(models.CircuitBreakerState{
				Status:             models.BreakerLocked,
				AcknowledgedLosses: acknowledged,
			}, results)

			st, err := app.Engine.Unlock(locked, reviewCompleted, answers)
			if err != nil {
				if errors.Is(err, apperrors.ErrUnlockDenied) && !output.IsStructured() {
					output.Error("✗ %v", err)
				}
				return err
			}
			if output.IsStructured() {
				return output.Structured(st)
			}
			output.Success("✓ Unlocked. Review score %.0f%%", breaker.ReviewScore(answers)*100)
			printBreaker(output, st)
			output.Dim("Persist --status %s --acknowledged %d for the next evaluation.", st.Status, st.AcknowledgedLosses)
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&raw, "answers", nil, "review answers as id=true|false pairs")
	cmd.Flags().BoolVar(&reviewCompleted, "review-completed", true, "the written review of the streak is done")
	cmd.Flags().IntVar(&acknowledged, "acknowledged", 0, "loss streak acknowledged by a previous unlock")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func netPnL(results []models.TradeResult) float64 {
	var sum float64
	for _, r := range results {
		sum += r.ProfitLoss
	}
	return sum
}
