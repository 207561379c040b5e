package breaker

import "trading-discipline/internal/models"

const (
	// DefaultWindow is the number of most recent results considered.
	DefaultWindow = 10

	// Loss streak lengths that raise a warning and lock new entries.
	WarningLosses = 3
	LockLosses    = 5

	// ProfitFactorCap stands in for an infinite profit factor when there are no losses.
	ProfitFactorCap = 999.0

	// UnlockPassRatio is the share of review answers that must be correct to unlock.
	UnlockPassRatio = 0.6

	// Pattern fit bands.
	GoodFitScore = 70.0
	FairFitScore = 50.0

	// NeutralPatternScore is reported when there is too little history to judge fit.
	NeutralPatternScore = 50.0
)

// Thresholds lists the breaker's rule constants.
func Thresholds() []models.Threshold {
	const c = "breaker"
	return []models.Threshold{
		{Component: c, Rule: "default window", Value: DefaultWindow, Unit: "trades"},
		{Component: c, Rule: "warning at consecutive losses", Value: WarningLosses, Unit: "trades"},
		{Component: c, Rule: "lock at consecutive losses", Value: LockLosses, Unit: "trades"},
		{Component: c, Rule: "profit factor cap", Value: ProfitFactorCap},
		{Component: c, Rule: "review pass ratio", Value: UnlockPassRatio * 100, Unit: "%"},
		{Component: c, Rule: "good market fit from", Value: GoodFitScore, Unit: "points"},
		{Component: c, Rule: "fair market fit from", Value: FairFitScore, Unit: "points"},
	}
}
