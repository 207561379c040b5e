package breaker

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"trading-discipline/internal/models"
)

func genResults() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.Bool(),
		gen.Float64Range(0, 1000),
	).Map(func(v []interface{}) models.TradeResult {
		if v[0].(bool) {
			return models.TradeResult{Result: models.OutcomeWin, ProfitLoss: v[1].(float64)}
		}
		return models.TradeResult{Result: models.OutcomeLoss, ProfitLoss: -v[1].(float64)}
	}))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Property: every derived figure is finite and inside its documented range.
func TestProperty_StateIsBounded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("finite, bounded state", prop.ForAll(
		func(results []models.TradeResult) bool {
			st := Evaluate(results)
			return finite(st.ProfitFactor) && st.ProfitFactor >= 0 && st.ProfitFactor <= ProfitFactorCap &&
				finite(st.WinRate) && st.WinRate >= 0 && st.WinRate <= 100 &&
				finite(st.PatternMatchScore) && st.PatternMatchScore >= 0 && st.PatternMatchScore <= 100 &&
				st.ConsecutiveLosses <= DefaultWindow && st.ConsecutiveWins <= DefaultWindow &&
				(st.ConsecutiveLosses == 0 || st.ConsecutiveWins == 0)
		},
		genResults(),
	))

	properties.Property("locked exactly when the streak reaches the limit", prop.ForAll(
		func(results []models.TradeResult) bool {
			st := Evaluate(results)
			locked := st.ConsecutiveLosses >= LockLosses
			return st.IsActive == locked && (st.Status == models.BreakerLocked) == locked
		},
		genResults(),
	))

	properties.Property("evaluation is idempotent", prop.ForAll(
		func(results []models.TradeResult) bool {
			return reflect.DeepEqual(Evaluate(results), Evaluate(results))
		},
		genResults(),
	))

	properties.TestingRun(t)
}

// Property: a locked breaker never leaves LOCKED through Advance alone.
func TestProperty_LockedStaysLocked(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("advance keeps LOCKED", prop.ForAll(
		func(results []models.TradeResult) bool {
			prev := models.CircuitBreakerState{Status: models.BreakerLocked, IsActive: true}
			st := Advance(prev, results, Options{})
			return st.Status == models.BreakerLocked && st.IsActive
		},
		genResults(),
	))

	properties.TestingRun(t)
}
