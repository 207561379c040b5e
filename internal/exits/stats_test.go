package exits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-discipline/internal/models"
)

func delayed(secs int64) *int64 { return &secs }

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, models.ExecutionStats{}, Summarize(nil))
	assert.Equal(t, models.ExecutionStats{}, Summarize([]models.ExecutionRecord{}))
}

func TestSummarize(t *testing.T) {
	records := []models.ExecutionRecord{
		{Type: models.AlertStopLoss, Executed: true, DelaySeconds: delayed(30)},
		{Type: models.AlertStopLoss, Executed: true, DelaySeconds: delayed(90)},
		{Type: models.AlertStopLoss, Executed: false},
		{Type: models.AlertStopLoss, Executed: false},
		{Type: models.AlertTakeProfit, Executed: true, DelaySeconds: delayed(0)},
		{Type: models.AlertTakeProfit, Executed: true},
	}

	got := Summarize(records)
	assert.Equal(t, 50.0, got.StopLossExecutionRate)
	assert.Equal(t, 100.0, got.TakeProfitExecutionRate)
	assert.Equal(t, 60.0, got.AverageDelay, "records without a delay are not averaged")
	assert.Equal(t, 4, got.TotalExecuted)
	assert.Equal(t, 6, got.TotalTriggered)
}

func TestSummarize_OnlyOneType(t *testing.T) {
	got := Summarize([]models.ExecutionRecord{{Type: models.AlertTakeProfit, Executed: false}})
	assert.Zero(t, got.StopLossExecutionRate)
	assert.Zero(t, got.TakeProfitExecutionRate)
	assert.Zero(t, got.AverageDelay)
	assert.Equal(t, 1, got.TotalTriggered)
}

func TestAdvice(t *testing.T) {
	stop := models.ExitAlert{Type: models.AlertStopLoss}
	assert.Len(t, Advice(stop, 10), 3)
	assert.Len(t, Advice(stop, 61), 4)

	profit := models.ExitAlert{Type: models.AlertTakeProfit}
	assert.Len(t, Advice(profit, 300), 3)
	got := Advice(profit, 301)
	require.Len(t, got, 4)
	assert.Equal(t, "price may pull back, take profit soon", got[3])
}

func TestExecutionReport(t *testing.T) {
	at := triggered.Add(2 * time.Minute)
	price := 1234.5
	rec := models.ExecutionRecord{
		PlanID:         "p1",
		Type:           models.AlertStopLoss,
		TriggerTime:    triggered,
		TriggerPrice:   1240,
		Executed:       true,
		ExecutionTime:  &at,
		ExecutionPrice: &price,
		DelaySeconds:   delayed(120),
	}

	report := ExecutionReport(rec)
	assert.Contains(t, report, "Type:            Stop-loss")
	assert.Contains(t, report, "Trigger price:   1,240.00")
	assert.Contains(t, report, "Execution price: 1,234.50")
	assert.Contains(t, report, "Delay:           120s")
	assert.Contains(t, report, "execution was slow")

	missed := ExecutionReport(models.ExecutionRecord{Type: models.AlertTakeProfit, TriggerTime: triggered, TriggerPrice: 50})
	assert.Contains(t, missed, "Take-profit")
	assert.Contains(t, missed, "NOT EXECUTED")
	assert.Contains(t, missed, "Reason: unknown")
}
