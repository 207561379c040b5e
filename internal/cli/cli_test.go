package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-discipline/internal/breaker"
	"trading-discipline/internal/config"
	"trading-discipline/internal/engine"
	apperrors "trading-discipline/internal/errors"
	"trading-discipline/internal/models"
)

const deviatingTradeJSON = `{
  "id": "T-1",
  "symbol": "AAPL",
  "status": "pending",
  "plan": {"plannedEntryPrice": 100, "plannedQuantity": 10},
  "entryPrice": 106,
  "entryQuantity": 10,
  "entryTime": "2024-03-01T09:30:00Z",
  "updatedAt": "2024-03-01T10:30:00Z"
}`

const fiveLossesCSV = "id,symbol,date,result,profit_loss,reason\n" +
	"5,AAPL,2024-03-05,loss,-100,\n" +
	"4,AAPL,2024-03-04,loss,-100,\n" +
	"3,AAPL,2024-03-03,loss,-100,\n" +
	"2,AAPL,2024-03-02,loss,-100,\n" +
	"1,AAPL,2024-03-01,loss,-100,\n"

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	cmd := NewRootCmd(cfg, zerolog.Nop())
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func decodeJSON(t *testing.T, out string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func correctAnswers() string {
	var pairs []string
	for _, q := range breaker.ReviewQuestions() {
		if q.Expected {
			pairs = append(pairs, q.ID+"=true")
		} else {
			pairs = append(pairs, q.ID+"=false")
		}
	}
	return strings.Join(pairs, ",")
}

func TestViolationsCommand(t *testing.T) {
	path := writeFile(t, "trade.json", deviatingTradeJSON)

	out, err := execute(t, nil, "violations", path, "--json")
	require.NoError(t, err)

	var report violationReport
	decodeJSON(t, out, &report)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, models.ViolationEntryPrice, report.Violations[0].Type)
	assert.InDelta(t, 60.0, report.Cost, 1e-9)

	text, err := execute(t, nil, "violations", path)
	require.NoError(t, err)
	assert.Contains(t, text, "T-1")
	assert.Contains(t, text, "60.00")
}

func TestViolationsCommand_YAMLOutput(t *testing.T) {
	path := writeFile(t, "trade.json", deviatingTradeJSON)

	out, err := execute(t, nil, "violations", path, "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "tradeId: T-1")
	assert.Contains(t, out, "cost: 60")
}

func TestViolationsCommand_BadInput(t *testing.T) {
	path := writeFile(t, "trade.json", `{"status": "open"}`)

	_, err := execute(t, nil, "violations", path)
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)

	var recErr *apperrors.RecordError
	assert.ErrorAs(t, err, &recErr)
}

func TestBatchCommand(t *testing.T) {
	path := writeFile(t, "trades.json", "["+deviatingTradeJSON+`, {"id": "T-2", "status": "planned"}]`)

	out, err := execute(t, nil, "batch", path, "--json")
	require.NoError(t, err)

	var results []engine.BatchResult
	decodeJSON(t, out, &results)
	require.Len(t, results, 2)
	assert.Equal(t, "T-1", results[0].TradeID)
	assert.Len(t, results[0].Violations, 1)
	assert.Equal(t, "T-2", results[1].TradeID)
	assert.Empty(t, results[1].Violations)
}

func TestEmotionCommand(t *testing.T) {
	history := writeFile(t, "history.json",
		`{"currentPrice": 109.5, "dayHigh": 110, "dayLow": 104, "priceChange1d": 6, "volume": 1000, "avgVolume": 800}`)

	out, err := execute(t, nil, "emotion",
		"--action", "buy", "--price", "109.5", "--symbol", "AAPL",
		"--at", "2024-03-01T10:00:00Z", "--history", history, "--json")
	require.NoError(t, err)

	var score models.EmotionScore
	decodeJSON(t, out, &score)
	assert.Equal(t, score.Factors.Sum(), score.Total)
	assert.Positive(t, score.Factors.ChasingRally)
	assert.Zero(t, score.Factors.PanicSelling)

	report, err := execute(t, nil, "emotion",
		"--action", "buy", "--price", "109.5", "--history", history, "--report")
	require.NoError(t, err)
	assert.Contains(t, report, "Emotional Trading Report")
}

func TestEmotionCommand_RejectsUnknownAction(t *testing.T) {
	_, err := execute(t, nil, "emotion", "--action", "hold", "--price", "10")
	assert.ErrorIs(t, err, apperrors.ErrInvalidActionType)
}

func TestExitCommands(t *testing.T) {
	out, err := execute(t, nil, "exit", "stop-loss", "--price", "94", "--stop", "95", "--json")
	require.NoError(t, err)
	var alert models.ExitAlert
	decodeJSON(t, out, &alert)
	assert.Equal(t, models.UrgencyCritical, alert.Urgency)

	out, err = execute(t, nil, "exit", "take-profit", "--price", "105", "--t1", "110")
	require.NoError(t, err)
	assert.Contains(t, out, "No exit level reached")

	out, err = execute(t, nil, "exit", "take-profit", "--price", "125", "--t1", "110", "--t2", "120", "--t3", "130", "--json")
	require.NoError(t, err)
	decodeJSON(t, out, &alert)
	assert.Equal(t, 2, alert.Level)
}

func TestExitRecordCommand(t *testing.T) {
	out, err := execute(t, nil, "exit", "record",
		"--plan", "P-1", "--type", "stop_loss", "--trigger-price", "95",
		"--triggered-at", "2024-03-01T09:30:00Z", "--executed", "--execution-price", "94.8", "--json")
	require.NoError(t, err)

	var rec models.ExecutionRecord
	decodeJSON(t, out, &rec)
	assert.Len(t, rec.ID, 26)
	assert.Equal(t, "P-1", rec.PlanID)
	assert.True(t, rec.Executed)
	require.NotNil(t, rec.ExecutionPrice)
	assert.Equal(t, 94.8, *rec.ExecutionPrice)
	require.NotNil(t, rec.DelaySeconds)
	assert.Positive(t, *rec.DelaySeconds)
}

func TestExitDelayCommand(t *testing.T) {
	out, err := execute(t, nil, "exit", "delay",
		"--type", "stop_loss", "--trigger-price", "95", "--price", "94",
		"--triggered-at", "2024-03-01T09:30:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "still not executed")
	assert.Contains(t, out, "every second of delay adds risk")
}

func TestExitStatsCommand(t *testing.T) {
	path := writeFile(t, "execs.json", `[
		{"planId": "p1", "type": "stop_loss", "triggerTime": "2024-05-01T10:00:00Z", "triggerPrice": 95, "executed": true, "delaySeconds": 40},
		{"planId": "p2", "type": "stop_loss", "triggerTime": "2024-05-02T10:00:00Z", "triggerPrice": 90, "executed": false}
	]`)

	out, err := execute(t, nil, "exit", "stats", path, "--json")
	require.NoError(t, err)
	var stats models.ExecutionStats
	decodeJSON(t, out, &stats)
	assert.Equal(t, 2, stats.TotalTriggered)
	assert.InDelta(t, 50.0, stats.StopLossExecutionRate, 1e-9)
	assert.InDelta(t, 40.0, stats.AverageDelay, 1e-9)

	text, err := execute(t, nil, "exit", "stats", path)
	require.NoError(t, err)
	assert.Contains(t, text, "1 stop-loss exits were not executed")
}

func TestBreakerCommands(t *testing.T) {
	path := writeFile(t, "results.csv", fiveLossesCSV)

	out, err := execute(t, nil, "breaker", path, "--json")
	require.NoError(t, err)
	var st models.CircuitBreakerState
	decodeJSON(t, out, &st)
	assert.Equal(t, models.BreakerLocked, st.Status)
	assert.Equal(t, 5, st.ConsecutiveLosses)

	out, err = execute(t, nil, "breaker", "unlock", path, "--answers", correctAnswers(), "--json")
	require.NoError(t, err)
	decodeJSON(t, out, &st)
	assert.Equal(t, models.BreakerNormal, st.Status)
	assert.Equal(t, 5, st.AcknowledgedLosses)

	// The acknowledged streak no longer locks on its own.
	out, err = execute(t, nil, "breaker", path, "--acknowledged", "5", "--json")
	require.NoError(t, err)
	decodeJSON(t, out, &st)
	assert.Equal(t, models.BreakerNormal, st.Status)
}

func TestBreakerUnlockDenied(t *testing.T) {
	path := writeFile(t, "results.csv", fiveLossesCSV)

	_, err := execute(t, nil, "breaker", "unlock", path, "--answers", "calm_mind=true")
	assert.ErrorIs(t, err, apperrors.ErrUnlockDenied)

	_, err = execute(t, nil, "breaker", "unlock", path, "--answers", correctAnswers(), "--review-completed=false")
	assert.ErrorIs(t, err, apperrors.ErrUnlockDenied)
}

func TestBreakerQuestionsHideAnswers(t *testing.T) {
	out, err := execute(t, nil, "breaker", "questions", "--json")
	require.NoError(t, err)
	assert.NotContains(t, out, "expected")

	var qs []questionView
	decodeJSON(t, out, &qs)
	assert.Len(t, qs, len(breaker.ReviewQuestions()))
}

func TestRulesCommand(t *testing.T) {
	out, err := execute(t, nil, "rules", "--json")
	require.NoError(t, err)

	var rules []models.Threshold
	decodeJSON(t, out, &rules)
	components := map[string]bool{}
	for _, r := range rules {
		components[r.Component] = true
	}
	assert.Equal(t, map[string]bool{"violation": true, "emotion": true, "exits": true, "breaker": true}, components)

	out, err = execute(t, nil, "rules", "--component", "breaker", "--json")
	require.NoError(t, err)
	decodeJSON(t, out, &rules)
	assert.Len(t, rules, len(breaker.Thresholds()))
}

func TestVersionAndConfigCommands(t *testing.T) {
	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)

	out, err = execute(t, nil, "config", "validate", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)

	cfg := config.Default()
	cfg.Engine.BreakerWindow = 0
	_, err = execute(t, cfg, "config", "validate")
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}

func TestMetricsTextfile(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Textfile = filepath.Join(t.TempDir(), "discipline.prom")
	path := writeFile(t, "trade.json", deviatingTradeJSON)

	_, err := execute(t, cfg, "violations", path)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `discipline_violations_total{severity="high",type="entry_price"} 1`)
}

func TestExamplesCommand(t *testing.T) {
	out, err := execute(t, nil, "examples")
	require.NoError(t, err)
	assert.Contains(t, out, "After five straight losses")
	assert.Contains(t, out, "discipline breaker questions")
}
