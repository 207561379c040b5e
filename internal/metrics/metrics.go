// Package metrics exposes Prometheus collectors for engine evaluations.
//
// Collectors are registered on a caller-supplied registry so several engines,
// and tests, can coexist. A nil *Metrics records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"trading-discipline/internal/models"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "discipline"

// Metrics holds the engine's collectors.
type Metrics struct {
	evaluations   *prometheus.CounterVec
	violations    *prometheus.CounterVec
	violationCost prometheus.Histogram
	emotionScore  prometheus.Histogram
	emotionBlocks prometheus.Counter
	exitAlerts    *prometheus.CounterVec
	breakerStatus *prometheus.CounterVec
	breakerLocks  prometheus.Counter
	batchDuration prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Total number of evaluations by operation",
			},
			[]string{"operation"},
		),
		violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "violations_total",
				Help:      "Total number of plan violations detected",
			},
			[]string{"type", "severity"},
		),
		violationCost: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "violation_cost",
				Help:      "Distribution of estimated violation cost per trade",
				Buckets:   prometheus.ExponentialBuckets(10, 4, 7),
			},
		),
		emotionScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "emotion_score",
				Help:      "Distribution of composite emotional-risk scores",
				Buckets:   prometheus.LinearBuckets(10, 10, 10),
			},
		),
		emotionBlocks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "emotion_blocks_total",
				Help:      "Total number of scores recommending a block",
			},
		),
		exitAlerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exit_alerts_total",
				Help:      "Total number of exit alerts raised",
			},
			[]string{"type", "urgency"},
		),
		breakerStatus: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "breaker_evaluations_total",
				Help:      "Total number of circuit breaker evaluations by resulting status",
			},
			[]string{"status"},
		),
		breakerLocks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "breaker_locks_total",
				Help:      "Total number of transitions into LOCKED",
			},
		),
		batchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_duration_seconds",
				Help:      "Duration of batch violation detection",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.evaluations,
		m.violations,
		m.violationCost,
		m.emotionScore,
		m.emotionBlocks,
		m.exitAlerts,
		m.breakerStatus,
		m.breakerLocks,
		m.batchDuration,
	}
}

// ObserveEvaluation counts one call of operation.
func (m *Metrics) ObserveEvaluation(operation string) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(operation).Inc()
}

// ObserveViolations records detected violations and their estimated cost.
func (m *Metrics) ObserveViolations(violations []models.Violation, cost float64) {
	if m == nil {
		return
	}
	for _, v := range violations {
		m.violations.WithLabelValues(string(v.Type), string(v.Severity)).Inc()
	}
	if len(violations) > 0 {
		m.violationCost.Observe(cost)
	}
}

// ObserveEmotion records a composite score.
func (m *Metrics) ObserveEmotion(score models.EmotionScore) {
	if m == nil {
		return
	}
	m.emotionScore.Observe(float64(score.Total))
	if score.ShouldBlock {
		m.emotionBlocks.Inc()
	}
}

// ObserveAlert records a raised exit alert. A nil alert is ignored.
func (m *Metrics) ObserveAlert(alert *models.ExitAlert) {
	if m == nil || alert == nil {
		return
	}
	m.exitAlerts.WithLabelValues(string(alert.Type), string(alert.Urgency)).Inc()
}

// ObserveBreaker records a breaker evaluation and whether it newly locked.
func (m *Metrics) ObserveBreaker(state models.CircuitBreakerState, newlyLocked bool) {
	if m == nil {
		return
	}
	status := state.Status
	if status == "" {
		status = models.BreakerNormal
	}
	m.breakerStatus.WithLabelValues(string(status)).Inc()
	if newlyLocked {
		m.breakerLocks.Inc()
	}
}

// ObserveBatch records how long a batch took, in seconds.
func (m *Metrics) ObserveBatch(seconds float64) {
	if m == nil {
		return
	}
	m.batchDuration.Observe(seconds)
}
