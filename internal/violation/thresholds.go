package violation

import "trading-discipline/internal/models"

// Rule thresholds. These values are fixed; changing them changes verdicts.
const (
	// Entry price deviation, percent of planned entry.
	EntryFlagPct   = 2.0
	EntryMediumPct = 3.0
	EntryHighPct   = 5.0

	// Position size deviation, percent of planned quantity.
	SizeFlagPct   = 10.0
	SizeMediumPct = 20.0
	SizeHighPct   = 30.0

	// Stop-loss deviation, percent of the planned risk distance |entry - planned stop|.
	StopDeviationPct = 20.0

	// A closed trade capturing less than this share of planned profit exited early.
	TakeProfitCaptureRatio = 0.7

	// Strategies tagged ShortTermTag should not be held longer than this many days.
	ShortTermTag            = "short_term"
	ShortTermMaxHoldingDays = 5

	// Share of a realized loss attributed to a stop-loss violation.
	StopLossCostFactor = 0.2
)

// Tiers grades a percentage deviation: above Flag is a violation, above Medium
// is medium severity and above High is high severity.
type Tiers struct {
	Flag   float64
	Medium float64
	High   float64
}

// Grade returns the severity for pct and whether pct is a violation at all.
func (t Tiers) Grade(pct float64) (models.Severity, bool) {
	if !(pct > t.Flag) {
		return "", false
	}
	switch {
	case pct > t.High:
		return models.SeverityHigh, true
	case pct > t.Medium:
		return models.SeverityMedium, true
	default:
		return models.SeverityLow, true
	}
}

var (
	entryTiers = Tiers{Flag: EntryFlagPct, Medium: EntryMediumPct, High: EntryHighPct}
	sizeTiers  = Tiers{Flag: SizeFlagPct, Medium: SizeMediumPct, High: SizeHighPct}
)

// EntryTiers returns the entry price grading table.
func EntryTiers() Tiers { return entryTiers }

// SizeTiers returns the position size grading table.
func SizeTiers() Tiers { return sizeTiers }

// Thresholds lists the detector's rule constants.
func Thresholds() []models.Threshold {
	const c = "violation"
	return []models.Threshold{
		{Component: c, Rule: "entry price flagged above", Value: EntryFlagPct, Unit: "%"},
		{Component: c, Rule: "entry price medium above", Value: EntryMediumPct, Unit: "%"},
		{Component: c, Rule: "entry price high above", Value: EntryHighPct, Unit: "%"},
		{Component: c, Rule: "position size flagged above", Value: SizeFlagPct, Unit: "%"},
		{Component: c, Rule: "position size medium above", Value: SizeMediumPct, Unit: "%"},
		{Component: c, Rule: "position size high above", Value: SizeHighPct, Unit: "%"},
		{Component: c, Rule: "stop-loss deviation of risk distance", Value: StopDeviationPct, Unit: "%"},
		{Component: c, Rule: "take-profit minimum capture", Value: TakeProfitCaptureRatio * 100, Unit: "%"},
		{Component: c, Rule: "short-term maximum holding", Value: ShortTermMaxHoldingDays, Unit: "days"},
		{Component: c, Rule: "stop-loss cost share of loss", Value: StopLossCostFactor * 100, Unit: "%"},
	}
}
