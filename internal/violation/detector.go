// Package violation compares a trade's execution against its plan and reports deviations.
//
// Every function here is pure: the same trade always yields the same violations,
// and nothing reads the clock.
package violation

import (
	"fmt"
	"math"
	"time"

	"trading-discipline/internal/models"
)

// Detect returns the plan deviations found in trade. A trade still in the
// planned state has nothing to compare and yields an empty list.
func Detect(trade models.Trade) []models.Violation {
	violations := make([]models.Violation, 0, 4)
	if trade.Status == models.StatusPlanned {
		return violations
	}

	checks := []func(models.Trade) (models.Violation, bool){
		checkEntryPrice,
		checkPositionSize,
		checkStopLoss,
		checkTakeProfit,
		checkHoldingTime,
	}
	for _, check := range checks {
		if v, ok := check(trade); ok {
			violations = append(violations, v)
		}
	}
	return violations
}

// Annotate returns a copy of trade with Violations and ViolationCost recomputed.
func Annotate(trade models.Trade) models.Trade {
	trade.Violations = Detect(trade)
	trade.ViolationCost = EstimateCost(trade)
	return trade
}

func deviationPct(actual, planned float64) float64 {
	return math.Abs(actual-planned) / planned * 100
}

func entryDetectedAt(t models.Trade) time.Time {
	if t.EntryTime != nil {
		return *t.EntryTime
	}
	return t.UpdatedAt
}

func checkEntryPrice(t models.Trade) (models.Violation, bool) {
	planned := t.Plan.PlannedEntryPrice
	if planned == 0 || t.EntryPrice == 0 {
		return models.Violation{}, false
	}
	pct := deviationPct(t.EntryPrice, planned)
	severity, ok := entryTiers.Grade(pct)
	if !ok {
		return models.Violation{}, false
	}
	return models.Violation{
		Type:         models.ViolationEntryPrice,
		Severity:     severity,
		PlannedValue: planned,
		ActualValue:  t.EntryPrice,
		Description:  fmt.Sprintf("entry price deviated from plan by %.2f%%", pct),
		DetectedAt:   entryDetectedAt(t),
	}, true
}

func checkPositionSize(t models.Trade) (models.Violation, bool) {
	planned := t.Plan.PlannedQuantity
	if planned == 0 || t.EntryQuantity == 0 {
		return models.Violation{}, false
	}
	pct := deviationPct(t.EntryQuantity, planned)
	severity, ok := sizeTiers.Grade(pct)
	if !ok {
		return models.Violation{}, false
	}
	return models.Violation{
		Type:         models.ViolationPositionSize,
		Severity:     severity,
		PlannedValue: planned,
		ActualValue:  t.EntryQuantity,
		Description:  fmt.Sprintf("position size deviated from plan by %.2f%%", pct),
		DetectedAt:   entryDetectedAt(t),
	}, true
}

// checkStopLoss only applies while the position is open.
func checkStopLoss(t models.Trade) (models.Violation, bool) {
	planned := t.Plan.PlannedStopLoss
	if t.Status != models.StatusActive || planned == 0 {
		return models.Violation{}, false
	}
	if t.StopLossPrice == 0 {
		return models.Violation{
			Type:         models.ViolationStopLoss,
			Severity:     models.SeverityHigh,
			PlannedValue: planned,
			Description:  "stop-loss not set",
			DetectedAt:   t.UpdatedAt,
		}, true
	}

	riskDistance := math.Abs(t.EntryPrice - planned)
	if t.EntryPrice == 0 || riskDistance == 0 {
		return models.Violation{}, false
	}
	pct := math.Abs(t.StopLossPrice-planned) / riskDistance * 100
	if !(pct > StopDeviationPct) {
		return models.Violation{}, false
	}
	return models.Violation{
		Type:         models.ViolationStopLoss,
		Severity:     models.SeverityMedium,
		PlannedValue: planned,
		ActualValue:  t.StopLossPrice,
		Description:  fmt.Sprintf("stop-loss deviated from plan by %.2f%%", pct),
		DetectedAt:   t.UpdatedAt,
	}, true
}

// profit returns the per-unit gain of moving from entry to exit in the plan's direction.
func profit(d models.Direction, entry, exit float64) float64 {
	if d.IsShort() {
		return entry - exit
	}
	return exit - entry
}

func checkTakeProfit(t models.Trade) (models.Violation, bool) {
	target := t.Plan.PlannedTakeProfit
	if t.Status != models.StatusClosed || target == 0 || t.ExitPrice == 0 {
		return models.Violation{}, false
	}
	planned := profit(t.Plan.Direction, t.Plan.PlannedEntryPrice, target)
	realized := profit(t.Plan.Direction, t.EntryPrice, t.ExitPrice)
	if !(realized < planned*TakeProfitCaptureRatio && realized > 0) {
		return models.Violation{}, false
	}

	detectedAt := t.UpdatedAt
	if t.ExitTime != nil {
		detectedAt = *t.ExitTime
	}
	return models.Violation{
		Type:         models.ViolationTakeProfit,
		Severity:     models.SeverityMedium,
		PlannedValue: target,
		ActualValue:  t.ExitPrice,
		Description:  "exited before target",
		DetectedAt:   detectedAt,
	}, true
}

// HoldingDays returns the whole days between entry and exit, or false when either is unknown.
func HoldingDays(t models.Trade) (int, bool) {
	if t.EntryTime == nil || t.ExitTime == nil {
		return 0, false
	}
	return int(t.ExitTime.Sub(*t.EntryTime) / (24 * time.Hour)), true
}

func checkHoldingTime(t models.Trade) (models.Violation, bool) {
	if t.Status != models.StatusClosed || !t.Plan.HasTag(ShortTermTag) {
		return models.Violation{}, false
	}
	days, ok := HoldingDays(t)
	if !ok || days <= ShortTermMaxHoldingDays {
		return models.Violation{}, false
	}
	return models.Violation{
		Type:         models.ViolationHoldingTime,
		Severity:     models.SeverityLow,
		PlannedValue: ShortTermMaxHoldingDays,
		ActualValue:  float64(days),
		Description:  fmt.Sprintf("short-term strategy held for %d days", days),
		DetectedAt:   *t.ExitTime,
	}, true
}

// Label returns a human-readable name for a violation type.
func Label(t models.ViolationType) string {
	switch t {
	case models.ViolationEntryPrice:
		return "Entry price"
	case models.ViolationPositionSize:
		return "Position size"
	case models.ViolationStopLoss:
		return "Stop-loss"
	case models.ViolationTakeProfit:
		return "Take-profit"
	case models.ViolationHoldingTime:
		return "Holding time"
	case models.ViolationAddPosition:
		return "Added position"
	}
	return string(t)
}
