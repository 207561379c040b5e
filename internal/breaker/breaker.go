// Package breaker tracks win/loss streaks over a rolling window of trade
// results and locks new entries after a run of losses.
//
// The lock is a guarded state machine:
//
//	NORMAL  -> WARNING  3-4 consecutive losses
//	WARNING -> LOCKED   5 or more consecutive losses
//	LOCKED  -> NORMAL   only through Unlock after a completed review
//
// Nothing here unlocks on the passage of time.
package breaker

import (
	"math"

	"trading-discipline/internal/models"
)

// Options tunes an evaluation. The zero value uses DefaultWindow and TrendVolatilityScore.
type Options struct {
	Window int
	Scorer PatternScorer
}

func (o Options) window() int {
	if o.Window < 1 {
		return DefaultWindow
	}
	return o.Window
}

func (o Options) scorer() PatternScorer {
	if o.Scorer == nil {
		return TrendVolatilityScore
	}
	return o.Scorer
}

// Evaluate derives the breaker state from results ordered most recent first,
// with no prior state.
func Evaluate(results []models.TradeResult) models.CircuitBreakerState {
	return Advance(models.CircuitBreakerState{}, results, Options{})
}

// Advance derives the next state from prev and the current result window.
//
// A LOCKED state stays LOCKED whatever the results say. A loss streak that a
// completed review already acknowledged does not lock again until it grows
// past the acknowledged length; any win clears the acknowledgement.
func Advance(prev models.CircuitBreakerState, results []models.TradeResult, opts Options) models.CircuitBreakerState {
	window := Recent(results, opts.window())

	st := stats(window)
	st.WindowSize = opts.window()
	st.PatternMatchScore = sanitize(opts.scorer()(window))
	st.ActiveUntil = prev.ActiveUntil

	if prev.Status == models.BreakerLocked {
		st.Status = models.BreakerLocked
		st.IsActive = true
		st.AcknowledgedLosses = prev.AcknowledgedLosses
		st.LossesUntilLock = 0
		return st
	}

	ack := prev.AcknowledgedLosses
	if st.ConsecutiveLosses < ack || st.ConsecutiveLosses == 0 {
		ack = 0
	}
	st.AcknowledgedLosses = ack

	streak := st.ConsecutiveLosses
	switch {
	case streak > ack && streak >= LockLosses:
		st.Status = models.BreakerLocked
		st.IsActive = true
	case streak > ack && streak >= WarningLosses:
		st.Status = models.BreakerWarning
	default:
		st.Status = models.BreakerNormal
	}
	if !st.IsActive {
		st.LossesUntilLock = lossesUntilLock(streak, ack)
	}
	return st
}

// Recent returns the first n results, or all of them when there are fewer.
func Recent(results []models.TradeResult, n int) []models.TradeResult {
	if len(results) > n {
		return results[:n]
	}
	return results
}

func lossesUntilLock(streak, ack int) int {
	threshold := LockLosses
	if ack >= threshold {
		threshold = ack + 1
	}
	if streak >= threshold {
		return 0
	}
	return threshold - streak
}

// stats computes the streak and performance figures of a window.
func stats(window []models.TradeResult) models.CircuitBreakerState {
	var st models.CircuitBreakerState

	for _, r := range window {
		if r.IsWin() {
			break
		}
		st.ConsecutiveLosses++
	}
	for _, r := range window {
		if !r.IsWin() {
			break
		}
		st.ConsecutiveWins++
	}

	st.WinRate = WinRate(window)
	st.ProfitFactor = ProfitFactor(window)
	return st
}

// WinRate returns the percentage of wins in results, or 0 when empty.
func WinRate(results []models.TradeResult) float64 {
	if len(results) == 0 {
		return 0
	}
	wins := 0
	for _, r := range results {
		if r.IsWin() {
			wins++
		}
	}
	return float64(wins) / float64(len(results)) * 100
}

// ProfitFactor returns gross profit over gross loss. With no losses it is
// ProfitFactorCap when there was any profit and 0 otherwise.
func ProfitFactor(results []models.TradeResult) float64 {
	var grossWin, grossLoss float64
	for _, r := range results {
		switch {
		case r.ProfitLoss > 0:
			grossWin += r.ProfitLoss
		case r.ProfitLoss < 0:
			grossLoss -= r.ProfitLoss
		}
	}
	if grossLoss == 0 {
		if grossWin > 0 {
			return ProfitFactorCap
		}
		return 0
	}
	return math.Min(grossWin/grossLoss, ProfitFactorCap)
}

// Band classifies a pattern match score as "good", "fair" or "poor".
func Band(score float64) string {
	switch {
	case score >= GoodFitScore:
		return "good"
	case score >= FairFitScore:
		return "fair"
	default:
		return "poor"
	}
}
