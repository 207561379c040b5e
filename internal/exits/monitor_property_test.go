package exits

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"trading-discipline/internal/models"
)

// Property: the highest reached target always wins and only one alert is returned.
func TestProperty_TakeProfitSingleAlert(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("price >= target3 always reports level 3", prop.ForAll(
		func(t1, t2, t3, over float64) bool {
			alert := CheckTakeProfit(t3+over, t1, t2, t3)
			return alert != nil && alert.Level == 3 && alert.TriggerPrice == t3
		},
		gen.Float64Range(1, 500),
		gen.Float64Range(1, 500),
		gen.Float64Range(1, 500),
		gen.Float64Range(0, 100),
	))

	properties.Property("reported level is the highest target reached", prop.ForAll(
		func(t1, step1, step2, price float64) bool {
			t2 := t1 + step1
			t3 := t2 + step2
			alert := CheckTakeProfit(price, t1, t2, t3)
			switch {
			case price >= t3:
				return alert != nil && alert.Level == 3
			case price >= t2:
				return alert != nil && alert.Level == 2
			case price >= t1:
				return alert != nil && alert.Level == 1
			default:
				return alert == nil
			}
		},
		gen.Float64Range(50, 150),
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 300),
	))

	properties.TestingRun(t)
}

// Property: execution stats stay finite and rates stay within 0-100.
func TestProperty_SummarizeIsBounded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("rates in [0,100], executed <= triggered", prop.ForAll(
		func(flags []bool, delays []int64) bool {
			alert := *CheckStopLoss(90, 100)
			tp := *CheckTakeProfit(200, 110, 120, 130)
			records := make([]models.ExecutionRecord, 0, len(flags))
			for i, executed := range flags {
				a := alert
				if i%2 == 1 {
					a = tp
				}
				d := time.Duration(0)
				if i < len(delays) {
					d = time.Duration(delays[i]) * time.Second
				}
				records = append(records, BuildExecutionRecordAt("p", a, triggered, executed, nil, "", triggered.Add(d)))
			}
			s := Summarize(records)
			return s.StopLossExecutionRate >= 0 && s.StopLossExecutionRate <= 100 &&
				s.TakeProfitExecutionRate >= 0 && s.TakeProfitExecutionRate <= 100 &&
				s.AverageDelay >= 0 &&
				s.TotalExecuted <= s.TotalTriggered &&
				s.TotalTriggered == len(flags)
		},
		gen.SliceOf(gen.Bool()),
		gen.SliceOf(gen.Int64Range(0, 3600)),
	))

	properties.TestingRun(t)
}
