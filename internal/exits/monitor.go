// Package exits watches a live price against a plan's stop-loss and take-profit
// levels and audits how quickly triggered exits were acted on.
package exits

import (
	"fmt"
	"time"

	"trading-discipline/internal/models"
)

// CheckStopLoss returns a critical alert when price is at or below the stop,
// a high-urgency alert when price is less than 2% above it, and nil otherwise.
// A stop at or below zero is treated as unset.
func CheckStopLoss(currentPrice, stopLoss float64) *models.ExitAlert {
	if stopLoss <= 0 {
		return nil
	}
	if currentPrice <= stopLoss {
		return &models.ExitAlert{
			Type:            models.AlertStopLoss,
			TriggerPrice:    stopLoss,
			CurrentPrice:    currentPrice,
			SuggestedAction: "stop-loss hit: exit now to avoid a larger loss",
			Urgency:         models.UrgencyCritical,
		}
	}

	distance := (currentPrice - stopLoss) / stopLoss * 100
	if distance > 0 && distance < ApproachingStopPct {
		return &models.ExitAlert{
			Type:            models.AlertStopLoss,
			TriggerPrice:    stopLoss,
			CurrentPrice:    currentPrice,
			SuggestedAction: "price is approaching the stop-loss: prepare to exit",
			Urgency:         models.UrgencyHigh,
		}
	}
	return nil
}

// CheckTakeProfit returns at most one alert, for the highest target reached.
// Targets at or below zero are treated as unset.
func CheckTakeProfit(currentPrice, target1, target2, target3 float64) *models.ExitAlert {
	targets := [3]float64{target1, target2, target3}
	for i := len(targets) - 1; i >= 0; i-- {
		price := targets[i]
		if price <= 0 || currentPrice < price {
			continue
		}
		t := Targets[i]
		return &models.ExitAlert{
			Type:            models.AlertTakeProfit,
			Level:           t.Level,
			TriggerPrice:    price,
			CurrentPrice:    currentPrice,
			SuggestedAction: t.Action,
			Urgency:         t.Urgency,
		}
	}
	return nil
}

// AttachDelayWarning returns alert with a delay warning based on the time
// elapsed since triggerTime, measured against the wall clock.
func AttachDelayWarning(alert models.ExitAlert, triggerTime time.Time) models.ExitAlert {
	return AttachDelayWarningAt(alert, triggerTime, time.Now())
}

// AttachDelayWarningAt is AttachDelayWarning with an explicit current time.
// The input alert is not modified.
func AttachDelayWarningAt(alert models.ExitAlert, triggerTime, now time.Time) models.ExitAlert {
	delay := elapsed(triggerTime, now)

	switch alert.Type {
	case models.AlertStopLoss:
		switch {
		case delay > StopLossCriticalAfter:
			alert.DelayWarning = fmt.Sprintf("stop-loss triggered %d minutes ago and still not executed", int64(delay/time.Minute))
			alert.Urgency = models.UrgencyCritical
		case delay > StopLossEscalateAfter:
			alert.DelayWarning = fmt.Sprintf("stop-loss triggered %d seconds ago, execute as soon as possible", int64(delay/time.Second))
		}
	case models.AlertTakeProfit:
		if delay > TakeProfitWarnAfter {
			alert.DelayWarning = "price may pull back, take profit soon"
		}
	}
	return alert
}

// elapsed truncates to whole seconds.
func elapsed(from, to time.Time) time.Duration {
	return to.Sub(from).Truncate(time.Second)
}

// BuildExecutionRecord builds the audit entry for a triggered alert using the wall clock.
func BuildExecutionRecord(planID string, alert models.ExitAlert, triggerTime time.Time, executed bool, executionPrice *float64, reason string) models.ExecutionRecord {
	return BuildExecutionRecordAt(planID, alert, triggerTime, executed, executionPrice, reason, time.Now())
}

// BuildExecutionRecordAt builds the audit entry with an explicit current time.
// ExecutionTime and DelaySeconds are only set when executed is true. The ID is
// left empty for the caller to assign.
func BuildExecutionRecordAt(planID string, alert models.ExitAlert, triggerTime time.Time, executed bool, executionPrice *float64, reason string, now time.Time) models.ExecutionRecord {
	rec := models.ExecutionRecord{
		PlanID:       planID,
		Type:         alert.Type,
		TriggerTime:  triggerTime,
		TriggerPrice: alert.TriggerPrice,
		Executed:     executed,
		Reason:       reason,
	}
	if executionPrice != nil {
		price := *executionPrice
		rec.ExecutionPrice = &price
	}
	if executed {
		at := now
		delay := int64(elapsed(triggerTime, now) / time.Second)
		rec.ExecutionTime = &at
		rec.DelaySeconds = &delay
	}
	return rec
}
