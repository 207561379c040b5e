package breaker

import (
	"math"

	"github.com/markcheno/go-talib"

	"trading-discipline/internal/models"
)

// PatternScorer rates from 0 to 100 how well current conditions fit the
// trader's pattern, given a result window ordered most recent first.
type PatternScorer func(window []models.TradeResult) float64

// Weights of TrendVolatilityScore's components.
const (
	winRateWeight   = 0.5
	trendWeight     = 0.25
	stabilityWeight = 0.25
)

// TrendVolatilityScore blends three 0-100 components:
//
//   - win rate over the window
//   - trend: 50 plus half the win rate difference between the newer and older halves
//   - stability: 100 scaled down by the P&L standard deviation relative to mean absolute P&L
//
// Fewer than two results score NeutralPatternScore.
func TrendVolatilityScore(window []models.TradeResult) float64 {
	n := len(window)
	if n < 2 {
		return NeutralPatternScore
	}

	half := n / 2
	trend := 50 + (WinRate(window[:half])-WinRate(window[half:]))/2

	score := winRateWeight*WinRate(window) +
		trendWeight*trend +
		stabilityWeight*stability(window)
	return sanitize(score)
}

func stability(window []models.TradeResult) float64 {
	pnls := make([]float64, len(window))
	meanAbs := 0.0
	for i, r := range window {
		pnls[i] = r.ProfitLoss
		meanAbs += math.Abs(r.ProfitLoss)
	}
	meanAbs /= float64(len(pnls))
	if meanAbs == 0 {
		return 100
	}

	sd := talib.StdDev(pnls, len(pnls), 1)[len(pnls)-1]
	return 100 * (1 - math.Min(1, sd/meanAbs))
}

// sanitize clamps a score to 0-100 and maps NaN to the neutral score.
func sanitize(score float64) float64 {
	switch {
	case math.IsNaN(score):
		return NeutralPatternScore
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}
