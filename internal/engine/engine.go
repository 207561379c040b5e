// Package engine is the entry point callers use to evaluate trading discipline.
//
// It wraps the pure evaluators in violation, emotion, exits and breaker with
// logging, metrics, record IDs and a bounded batch mode. It holds no state
// between calls beyond its configuration, so one Engine may be shared freely.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"trading-discipline/internal/breaker"
	"trading-discipline/internal/emotion"
	"trading-discipline/internal/exits"
	"trading-discipline/internal/logging"
	"trading-discipline/internal/metrics"
	"trading-discipline/internal/models"
	"trading-discipline/internal/violation"
)

const (
	// DefaultConcurrency bounds DetectBatch when no limit is configured.
	DefaultConcurrency = 4
	// DefaultBatchTimeout bounds a whole DetectBatch call.
	DefaultBatchTimeout = 30 * time.Second
)

// Engine evaluates trades, actions, exits and result windows.
type Engine struct {
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	clock        func() time.Time
	newID        IDFunc
	window       int
	scorer       breaker.PatternScorer
	concurrency  int
	batchTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics sets the collectors. Nil disables metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock sets the time source used for delays and record IDs.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithIDs replaces the ULID generator.
func WithIDs(fn IDFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithBreakerWindow sets how many recent results the circuit breaker reads.
func WithBreakerWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.window = n
		}
	}
}

// WithPatternScorer replaces the pattern-match model.
func WithPatternScorer(s breaker.PatternScorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithConcurrency bounds the number of trades DetectBatch evaluates at once.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithBatchTimeout bounds a DetectBatch call. Zero means no timeout.
func WithBatchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.batchTimeout = d
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:       zerolog.Nop(),
		clock:        time.Now,
		window:       breaker.DefaultWindow,
		concurrency:  DefaultConcurrency,
		batchTimeout: DefaultBatchTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.newID == nil {
		e.newID = newULIDSource(e.clock).next
	}
	return e
}

func (e *Engine) op(name string) zerolog.Logger {
	e.metrics.ObserveEvaluation(name)
	return logging.WithOperation(e.logger, name)
}

// DetectViolations lists every plan deviation in trade.
func (e *Engine) DetectViolations(trade models.Trade) []models.Violation {
	log := logging.WithSymbol(logging.WithTradeID(e.op("detect_violations"), trade.ID), trade.Symbol)

	vs := violation.Detect(trade)
	cost := violation.EstimateCost(withViolations(trade, vs))
	e.metrics.ObserveViolations(vs, cost)
	logging.LogViolations(log, vs, cost)
	return vs
}

// EstimateViolationCost returns the money attributed to trade's violations.
func (e *Engine) EstimateViolationCost(trade models.Trade) float64 {
	e.op("estimate_violation_cost")
	return violation.EstimateCost(trade)
}

// AnnotateTrade returns trade with its derived violation fields recomputed.
func (e *Engine) AnnotateTrade(trade models.Trade) models.Trade {
	log := logging.WithSymbol(logging.WithTradeID(e.op("annotate_trade"), trade.ID), trade.Symbol)

	out := violation.Annotate(trade)
	e.metrics.ObserveViolations(out.Violations, out.ViolationCost)
	logging.LogViolations(log, out.Violations, out.ViolationCost)
	return out
}

// ScoreEmotionalRisk scores a proposed action against market context and
// the trader's recent actions.
func (e *Engine) ScoreEmotionalRisk(action models.TradeAction, history models.PriceHistory, recent []models.TradeAction) models.EmotionScore {
	log := logging.WithSymbol(e.op("score_emotional_risk"), action.Symbol)

	score := emotion.Score(action, history, recent)
	e.metrics.ObserveEmotion(score)
	logging.LogEmotion(log, score)
	return score
}

// CheckStopLoss reports a breached or approaching stop.
func (e *Engine) CheckStopLoss(currentPrice, stopLoss float64) *models.ExitAlert {
	log := e.op("check_stop_loss")

	alert := exits.CheckStopLoss(currentPrice, stopLoss)
	e.metrics.ObserveAlert(alert)
	logging.LogAlert(log, alert)
	return alert
}

// CheckTakeProfit reports the highest take-profit target reached.
func (e *Engine) CheckTakeProfit(currentPrice, target1, target2, target3 float64) *models.ExitAlert {
	log := e.op("check_take_profit")

	alert := exits.CheckTakeProfit(currentPrice, target1, target2, target3)
	e.metrics.ObserveAlert(alert)
	logging.LogAlert(log, alert)
	return alert
}

// AttachDelayWarning returns alert with a warning for how long it has gone unexecuted.
func (e *Engine) AttachDelayWarning(alert models.ExitAlert, triggerTime time.Time) models.ExitAlert {
	log := e.op("attach_delay_warning")

	out := exits.AttachDelayWarningAt(alert, triggerTime, e.clock())
	if out.Urgency == models.UrgencyCritical && out.DelayWarning != "" {
		log.Warn().Str("type", string(out.Type)).Str("warning", out.DelayWarning).Msg("Exit overdue")
	}
	return out
}

// BuildExecutionRecord builds an audit record for a triggered exit and
// stamps it with a new ID.
func (e *Engine) BuildExecutionRecord(planID string, alert models.ExitAlert, triggerTime time.Time, executed bool, executionPrice *float64, reason string) models.ExecutionRecord {
	log := e.op("build_execution_record")

	rec := exits.BuildExecutionRecordAt(planID, alert, triggerTime, executed, executionPrice, reason, e.clock())
	rec.ID = e.newID()

	event := log.Debug().Str("id", rec.ID).Str("plan_id", planID).Bool("executed", executed)
	if rec.DelaySeconds != nil {
		event = event.Int64("delay_seconds", *rec.DelaySeconds)
	}
	event.Msg("Execution record built")
	return rec
}

// SummarizeExecutions aggregates execution records.
func (e *Engine) SummarizeExecutions(records []models.ExecutionRecord) models.ExecutionStats {
	e.op("summarize_executions")
	return exits.Summarize(records)
}

// EvaluateCircuitBreaker derives the breaker state from results ordered most
// recent first.
func (e *Engine) EvaluateCircuitBreaker(results []models.TradeResult) models.CircuitBreakerState {
	return e.AdvanceCircuitBreaker(models.CircuitBreakerState{}, results)
}

// AdvanceCircuitBreaker derives the next breaker state from a previously
// persisted one.
func (e *Engine) AdvanceCircuitBreaker(prev models.CircuitBreakerState, results []models.TradeResult) models.CircuitBreakerState {
	log := e.op("evaluate_circuit_breaker")

	st := breaker.Advance(prev, results, breaker.Options{Window: e.window, Scorer: e.scorer})
	newlyLocked := prev.Status != models.BreakerLocked && st.Status == models.BreakerLocked
	e.metrics.ObserveBreaker(st, newlyLocked)
	logging.LogBreaker(log, st)
	return st
}

// CanUnlock reports whether review answers are good enough to lift a lock.
func (e *Engine) CanUnlock(answers map[string]bool) bool {
	e.op("can_unlock")
	return breaker.CanUnlock(answers)
}

// Unlock lifts a lock after a completed review.
func (e *Engine) Unlock(state models.CircuitBreakerState, reviewCompleted bool, answers map[string]bool) (models.CircuitBreakerState, error) {
	log := e.op("unlock")

	next, err := breaker.Unlock(state, reviewCompleted, answers)
	if err != nil {
		log.Info().Err(err).Float64("review_score", breaker.ReviewScore(answers)).Msg("Unlock refused")
		return state, err
	}
	log.Info().Int("acknowledged_losses", next.AcknowledgedLosses).Msg("Circuit breaker unlocked")
	return next, nil
}

// BatchResult is the outcome for one trade of a DetectBatch call.
type BatchResult struct {
	Index      int                `json:"index"`
	TradeID    string             `json:"tradeId,omitempty"`
	Symbol     string             `json:"symbol,omitempty"`
	Violations []models.Violation `json:"violations"`
	Cost       float64            `json:"cost"`
}

// DetectBatch detects violations for many trades concurrently. Results keep
// the input order. It fails only when ctx ends or the batch timeout passes.
func (e *Engine) DetectBatch(ctx context.Context, trades []models.Trade) ([]BatchResult, error) {
	log := logging.WithEvaluationID(e.op("detect_batch"), e.newID())
	start := time.Now()

	if e.batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.batchTimeout)
		defer cancel()
	}

	results := make([]BatchResult, len(trades))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range trades {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t := trades[i]
			vs := violation.Detect(t)
			cost := violation.EstimateCost(withViolations(t, vs))
			e.metrics.ObserveViolations(vs, cost)
			results[i] = BatchResult{
				Index:      i,
				TradeID:    t.ID,
				Symbol:     t.Symbol,
				Violations: vs,
				Cost:       cost,
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	elapsed := time.Since(start)
	e.metrics.ObserveBatch(elapsed.Seconds())
	logging.LogDuration(log, "detect_batch", elapsed, err)
	if err != nil {
		return nil, err
	}

	flagged := 0
	for _, r := range results {
		if len(r.Violations) > 0 {
			flagged++
		}
	}
	log.Info().Int("trades", len(trades)).Int("flagged", flagged).Msg("Batch evaluated")
	return results, nil
}

func withViolations(t models.Trade, vs []models.Violation) models.Trade {
	t.Violations = vs
	return t
}
