package engine

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-discipline/internal/breaker"
	apperrors "trading-discipline/internal/errors"
	"trading-discipline/internal/metrics"
	"trading-discipline/internal/models"
)

var baseTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func timePtr(t time.Time) *time.Time { return &t }

func deviatingTrade(id string, entry float64) models.Trade {
	return models.Trade{
		ID:     id,
		Symbol: "AAPL",
		Status: models.StatusActive,
		Plan: models.TradePlan{
			PlannedEntryPrice: 100,
			PlannedQuantity:   10,
		},
		EntryPrice:    entry,
		EntryQuantity: 10,
		EntryTime:     timePtr(baseTime),
		UpdatedAt:     baseTime,
	}
}

func losses(n int) []models.TradeResult {
	out := make([]models.TradeResult, n)
	for i := range out {
		out[i] = models.TradeResult{Result: models.OutcomeLoss, ProfitLoss: -100, Date: baseTime.AddDate(0, 0, -i)}
	}
	return out
}

func allCorrect() map[string]bool {
	answers := make(map[string]bool)
	for _, q := range breaker.ReviewQuestions() {
		answers[q.ID] = q.Expected
	}
	return answers
}

func gather(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestEngine_DetectViolations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg, "")
	require.NoError(t, err)
	e := New(WithMetrics(m))

	vs := e.DetectViolations(deviatingTrade("T-1", 106))
	require.Len(t, vs, 1)
	assert.Equal(t, models.ViolationEntryPrice, vs[0].Type)
	assert.Equal(t, models.SeverityHigh, vs[0].Severity)
	assert.InDelta(t, 60.0, e.EstimateViolationCost(deviatingTrade("T-1", 106)), 1e-9)

	assert.Equal(t, 1.0, gather(t, reg, "discipline_violations_total"))
	assert.Equal(t, 2.0, gather(t, reg, "discipline_evaluations_total"))
}

func TestEngine_AnnotateTrade(t *testing.T) {
	e := New()
	out := e.AnnotateTrade(deviatingTrade("T-1", 106))
	require.Len(t, out.Violations, 1)
	assert.InDelta(t, 60.0, out.ViolationCost, 1e-9)
}

func TestEngine_ScoreEmotionalRisk(t *testing.T) {
	e := New()
	score := e.ScoreEmotionalRisk(
		models.TradeAction{Type: models.ActionBuy, Symbol: "AAPL", Price: 100, Timestamp: baseTime},
		models.PriceHistory{},
		nil,
	)
	assert.Equal(t, score.Factors.Sum(), score.Total)
	assert.False(t, score.ShouldBlock)
}

func TestEngine_ExitChecks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg, "desk")
	require.NoError(t, err)
	e := New(WithMetrics(m))

	stop := e.CheckStopLoss(94, 95)
	require.NotNil(t, stop)
	assert.Equal(t, models.UrgencyCritical, stop.Urgency)

	tp := e.CheckTakeProfit(125, 110, 120, 130)
	require.NotNil(t, tp)
	assert.Equal(t, 2, tp.Level)

	assert.Nil(t, e.CheckStopLoss(120, 95))
	assert.Equal(t, 2.0, gather(t, reg, "desk_exit_alerts_total"))
}

func TestEngine_AttachDelayWarningUsesClock(t *testing.T) {
	trigger := baseTime
	e := New(WithClock(fixedClock(trigger.Add(6 * time.Minute))))

	alert := *e.CheckStopLoss(94, 95)
	out := e.AttachDelayWarning(alert, trigger)
	assert.Equal(t, models.UrgencyCritical, out.Urgency)
	assert.Contains(t, out.DelayWarning, "6 minutes")
	assert.Empty(t, alert.DelayWarning)
}

func TestEngine_BuildExecutionRecord(t *testing.T) {
	n := 0
	e := New(
		WithClock(fixedClock(baseTime.Add(90*time.Second))),
		WithIDs(func() string { n++; return fmt.Sprintf("rec-%d", n) }),
	)
	alert := models.ExitAlert{Type: models.AlertStopLoss, TriggerPrice: 95, CurrentPrice: 94}
	price := 94.5

	rec := e.BuildExecutionRecord("P-1", alert, baseTime, true, &price, "")
	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, "P-1", rec.PlanID)
	require.NotNil(t, rec.DelaySeconds)
	assert.Equal(t, int64(90), *rec.DelaySeconds)

	missed := e.BuildExecutionRecord("P-1", alert, baseTime, false, nil, "hesitated")
	assert.Equal(t, "rec-2", missed.ID)
	assert.Nil(t, missed.DelaySeconds)

	stats := e.SummarizeExecutions([]models.ExecutionRecord{rec, missed})
	assert.Equal(t, 2, stats.TotalTriggered)
	assert.Equal(t, 1, stats.TotalExecuted)
	assert.InDelta(t, 50.0, stats.StopLossExecutionRate, 1e-9)
}

func TestEngine_DefaultIDsAreSortableULIDs(t *testing.T) {
	e := New(WithClock(fixedClock(baseTime)))
	alert := models.ExitAlert{Type: models.AlertTakeProfit}

	ids := make([]string, 50)
	for i := range ids {
		ids[i] = e.BuildExecutionRecord("P", alert, baseTime, false, nil, "").ID
	}
	for _, id := range ids {
		assert.Len(t, id, 26)
	}
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestEngine_CircuitBreakerLockAndUnlock(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg, "")
	require.NoError(t, err)
	e := New(WithMetrics(m))

	st := e.EvaluateCircuitBreaker(losses(5))
	require.Equal(t, models.BreakerLocked, st.Status)
	assert.Equal(t, 1.0, gather(t, reg, "discipline_breaker_locks_total"))

	// Staying locked is not a new lock.
	st = e.AdvanceCircuitBreaker(st, losses(5))
	assert.Equal(t, models.BreakerLocked, st.Status)
	assert.Equal(t, 1.0, gather(t, reg, "discipline_breaker_locks_total"))

	_, err = e.Unlock(st, false, allCorrect())
	assert.ErrorIs(t, err, apperrors.ErrUnlockDenied)

	assert.True(t, e.CanUnlock(allCorrect()))
	unlocked, err := e.Unlock(st, true, allCorrect())
	require.NoError(t, err)
	assert.Equal(t, models.BreakerNormal, unlocked.Status)

	relocked := e.AdvanceCircuitBreaker(unlocked, losses(6))
	assert.Equal(t, models.BreakerLocked, relocked.Status)
}

func TestEngine_BreakerWindow(t *testing.T) {
	e := New(WithBreakerWindow(3))
	st := e.EvaluateCircuitBreaker(losses(5))
	assert.Equal(t, models.BreakerWarning, st.Status)
	assert.Equal(t, 3, st.WindowSize)
}

func TestEngine_PatternScorer(t *testing.T) {
	e := New(WithPatternScorer(func([]models.TradeResult) float64 { return 88 }))
	st := e.EvaluateCircuitBreaker(losses(2))
	assert.Equal(t, 88.0, st.PatternMatchScore)
}

func TestEngine_DetectBatchKeepsOrder(t *testing.T) {
	e := New(WithConcurrency(3))

	trades := make([]models.Trade, 25)
	for i := range trades {
		entry := 100.0
		if i%2 == 0 {
			entry = 106
		}
		trades[i] = deviatingTrade(fmt.Sprintf("T-%d", i), entry)
	}

	results, err := e.DetectBatch(context.Background(), trades)
	require.NoError(t, err)
	require.Len(t, results, len(trades))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, trades[i].ID, r.TradeID)
		if i%2 == 0 {
			assert.Len(t, r.Violations, 1)
			assert.InDelta(t, 60.0, r.Cost, 1e-9)
		} else {
			assert.Empty(t, r.Violations)
			assert.Zero(t, r.Cost)
		}
	}
}

func TestEngine_DetectBatchCancelled(t *testing.T) {
	e := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.DetectBatch(ctx, []models.Trade{deviatingTrade("T-1", 106)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_DetectBatchEmpty(t *testing.T) {
	results, err := New().DetectBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
