package exits

import (
	"time"

	"trading-discipline/internal/models"
)

const (
	// A price less than this percent above the stop is approaching it.
	ApproachingStopPct = 2.0

	// Stop-loss reaction delays.
	StopLossEscalateAfter = 60 * time.Second
	StopLossCriticalAfter = 300 * time.Second

	// Take-profit reaction delay before warning about a pullback.
	TakeProfitWarnAfter = 600 * time.Second

	// Delay after which advice adds a hurry-up line.
	StopLossAdviceAfter   = 60 * time.Second
	TakeProfitAdviceAfter = 300 * time.Second

	// Executions slower than this are called out in the report.
	SlowExecution = 60 * time.Second
)

// Target describes the partial exit suggested when a take-profit level is reached.
type Target struct {
	Level   int
	Action  string
	Urgency models.Urgency
}

// Targets lists the take-profit ladder, first target first.
var Targets = [3]Target{
	{Level: 1, Action: "target 1 reached: sell 25% of the position", Urgency: models.UrgencyMedium},
	{Level: 2, Action: "target 2 reached: sell 50% of the position", Urgency: models.UrgencyMedium},
	{Level: 3, Action: "target 3 reached: sell the remaining 25% of the position", Urgency: models.UrgencyHigh},
}

// Thresholds lists the monitor's rule constants.
func Thresholds() []models.Threshold {
	const c = "exits"
	return []models.Threshold{
		{Component: c, Rule: "approaching stop within", Value: ApproachingStopPct, Unit: "%"},
		{Component: c, Rule: "stop-loss delay warning after", Value: StopLossEscalateAfter.Seconds(), Unit: "s"},
		{Component: c, Rule: "stop-loss delay critical after", Value: StopLossCriticalAfter.Seconds(), Unit: "s"},
		{Component: c, Rule: "take-profit delay warning after", Value: TakeProfitWarnAfter.Seconds(), Unit: "s"},
		{Component: c, Rule: "slow execution after", Value: SlowExecution.Seconds(), Unit: "s"},
	}
}
