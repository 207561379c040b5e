package exits

import (
	"fmt"
	"strings"
	"time"

	"trading-discipline/internal/models"
	"trading-discipline/pkg/utils"
)

// Summarize computes execution rates and the average reaction delay.
// Empty input yields zero stats. Executed records without a positive delay
// are left out of the average.
func Summarize(records []models.ExecutionRecord) models.ExecutionStats {
	var (
		stats                  models.ExecutionStats
		slTotal, slExec        int
		tpTotal, tpExec        int
		delaySum, delayedCount int64
	)

	for _, r := range records {
		switch r.Type {
		case models.AlertStopLoss:
			slTotal++
			if r.Executed {
				slExec++
			}
		case models.AlertTakeProfit:
			tpTotal++
			if r.Executed {
				tpExec++
			}
		}
		if !r.Executed {
			continue
		}
		stats.TotalExecuted++
		if r.DelaySeconds != nil && *r.DelaySeconds != 0 {
			delaySum += *r.DelaySeconds
			delayedCount++
		}
	}

	stats.TotalTriggered = len(records)
	stats.StopLossExecutionRate = rate(slExec, slTotal)
	stats.TakeProfitExecutionRate = rate(tpExec, tpTotal)
	if delayedCount > 0 {
		stats.AverageDelay = float64(delaySum) / float64(delayedCount)
	}
	return stats
}

func rate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Advice returns coaching lines for an alert that has been pending for delaySeconds.
func Advice(alert models.ExitAlert, delaySeconds int64) []string {
	delay := time.Duration(delaySeconds) * time.Second

	if alert.Type == models.AlertStopLoss {
		advice := []string{
			"the stop-loss is the last line of defense for your capital",
			"execute the stop now, do not hesitate",
			"a small loss is better than a big one",
		}
		if delay > StopLossAdviceAfter {
			advice = append(advice, "every second of delay adds risk")
		}
		return advice
	}

	advice := []string{
		"target reached, well done",
		"take profits in stages as planned",
		"lock in gains, do not get greedy",
	}
	if delay > TakeProfitAdviceAfter {
		advice = append(advice, "price may pull back, take profit soon")
	}
	return advice
}

// ExecutionReport renders a record as a plain-text report.
func ExecutionReport(record models.ExecutionRecord) string {
	kind := "Stop-loss"
	if record.Type == models.AlertTakeProfit {
		kind = "Take-profit"
	}

	lines := []string{
		"=== Exit Execution Record ===",
		"",
		"Type:            " + kind,
		"Triggered at:    " + record.TriggerTime.Format(time.RFC3339),
		"Trigger price:   " + utils.FormatPrice(record.TriggerPrice),
	}

	if !record.Executed {
		reason := record.Reason
		if reason == "" {
			reason = "unknown"
		}
		lines = append(lines, "", "NOT EXECUTED", "Reason: "+reason)
		return strings.Join(lines, "\n")
	}

	executedAt, price, delay := "-", "-", "-"
	if record.ExecutionTime != nil {
		executedAt = record.ExecutionTime.Format(time.RFC3339)
	}
	if record.ExecutionPrice != nil {
		price = utils.FormatPrice(*record.ExecutionPrice)
	}
	if record.DelaySeconds != nil {
		delay = fmt.Sprintf("%ds", *record.DelaySeconds)
	}
	lines = append(lines,
		"Executed at:     "+executedAt,
		"Execution price: "+price,
		"Delay:           "+delay,
		"",
		"EXECUTED",
	)
	if record.DelaySeconds != nil && time.Duration(*record.DelaySeconds)*time.Second > SlowExecution {
		lines = append(lines, "execution was slow, work on reacting faster")
	}
	return strings.Join(lines, "\n")
}
