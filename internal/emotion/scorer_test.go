package emotion

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-discipline/internal/models"
)

var now = time.Date(2024, 3, 14, 14, 0, 0, 0, time.UTC)

func buy(price float64) models.TradeAction {
	return models.TradeAction{Type: models.ActionBuy, Symbol: "INFY", Price: price, Timestamp: now}
}

func sell(price float64) models.TradeAction {
	return models.TradeAction{Type: models.ActionSell, Symbol: "INFY", Price: price, Timestamp: now}
}

// actionsAt returns n actions on symbol stamped age before now.
func actionsAt(n int, age time.Duration, symbol string) []models.TradeAction {
	out := make([]models.TradeAction, n)
	for i := range out {
		out[i] = models.TradeAction{Type: models.ActionBuy, Symbol: symbol, Price: 100, Timestamp: now.Add(-age)}
	}
	return out
}

func TestScore_ChasingRallyScenario(t *testing.T) {
	history := models.PriceHistory{DayHigh: 110, DayLow: 100, PriceChange1d: 6}

	got := Score(buy(109.5), history, nil)

	assert.Equal(t, 20, got.Factors.ChasingRally)
	assert.Zero(t, got.Factors.PanicSelling)
	assert.Equal(t, got.Factors.Sum(), got.Total)
}

func TestScore_ChasingRallyTiers(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		history models.PriceHistory
		want    int
	}{
		{"far from high, flat", 100, models.PriceHistory{DayHigh: 110}, 0},
		{"close to high", 107.5, models.PriceHistory{DayHigh: 110}, 5},
		{"mild moves", 100, models.PriceHistory{DayHigh: 110, PriceChange1d: 4, PriceChange5d: 12}, 10},
		{"everything maxed", 110, models.PriceHistory{DayHigh: 110, PriceChange1d: 8, PriceChange5d: 18}, 30},
		{"above the high", 111, models.PriceHistory{DayHigh: 110}, 10},
		{"no day high", 100, models.PriceHistory{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(buy(tt.price), tt.history, nil)
			assert.Equal(t, tt.want, got.Factors.ChasingRally)
		})
	}
}

func TestScore_PanicSelling(t *testing.T) {
	history := models.PriceHistory{DayHigh: 110, DayLow: 100, PriceChange1d: -6, PriceChange5d: -12}

	got := Score(sell(100.5), history, nil)

	assert.Equal(t, 25, got.Factors.PanicSelling)
	assert.Zero(t, got.Factors.ChasingRally)
	assert.Zero(t, got.Factors.FOMO, "sells never score FOMO")
	assert.Contains(t, got.Warnings, "down 6.00% today, avoid panic selling")
}

func TestScore_BuyNeverScoresPanic(t *testing.T) {
	history := models.PriceHistory{DayHigh: 110, DayLow: 100, PriceChange1d: -8, PriceChange5d: -20}

	got := Score(buy(100), history, nil)
	assert.Zero(t, got.Factors.PanicSelling)
}

func TestScore_HighFrequency(t *testing.T) {
	tests := []struct {
		name   string
		recent []models.TradeAction
		want   int
	}{
		{"quiet", nil, 0},
		{"three in the hour", actionsAt(3, 10*time.Minute, "INFY"), 4},
		{"five in the hour", actionsAt(5, 10*time.Minute, "INFY"), 8},
		{"exactly one hour old is outside", actionsAt(5, time.Hour, "INFY"), 0},
		{"ten in the day", actionsAt(10, 2*time.Hour, "INFY"), 3},
		{"thirty in the week", actionsAt(30, 3*24*time.Hour, "INFY"), 2},
		{
			"all tiers heavy",
			concat(
				actionsAt(5, 10*time.Minute, "INFY"),
				actionsAt(10, 2*time.Hour, "INFY"),
				actionsAt(35, 3*24*time.Hour, "INFY"),
			),
			20,
		},
		{"older than a week", actionsAt(60, 8*24*time.Hour, "INFY"), 0},
		{"future dated actions count", actionsAt(5, -10*time.Minute, "INFY"), 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(sell(105), models.PriceHistory{DayLow: 100}, tt.recent)
			assert.Equal(t, tt.want, got.Factors.HighFrequency)
		})
	}
}

func concat(parts ...[]models.TradeAction) []models.TradeAction {
	var out []models.TradeAction
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestScore_FOMO(t *testing.T) {
	hot := models.PriceHistory{DayHigh: 200, PriceChange1d: 6, PriceChange5d: 25, Volume: 350, AvgVolume: 100}

	tests := []struct {
		name    string
		history models.PriceHistory
		recent  []models.TradeAction
		want    int
	}{
		{"all rules", hot, nil, 20},
		{"traded this name recently", hot, actionsAt(1, 10*24*time.Hour, "INFY"), 15},
		{"traded another name recently", hot, actionsAt(1, 10*24*time.Hour, "TCS"), 20},
		{"last trade over 30 days ago", hot, actionsAt(1, 31*24*time.Hour, "INFY"), 20},
		{"elevated volume only", models.PriceHistory{DayHigh: 200, Volume: 250, AvgVolume: 100}, nil, 5},
		{"no average volume", models.PriceHistory{DayHigh: 200, Volume: 250}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(buy(150), tt.history, tt.recent)
			assert.Equal(t, tt.want, got.Factors.FOMO)
		})
	}
}

func TestScore_Classification(t *testing.T) {
	history := models.PriceHistory{DayHigh: 100, PriceChange1d: 6, PriceChange5d: 25, Volume: 400, AvgVolume: 100}

	t.Run("caution", func(t *testing.T) {
		got := Score(buy(100), history, nil)
		assert.Equal(t, 50, got.Total)
		assert.Equal(t, models.LevelCaution, got.Level)
		assert.False(t, got.ShouldBlock)
		assert.Equal(t, SummaryCaution, got.Warnings[0])
	})

	t.Run("danger", func(t *testing.T) {
		recent := concat(actionsAt(5, 10*time.Minute, "INFY"), actionsAt(5, 2*time.Hour, "INFY"))
		got := Score(buy(100), history, recent)
		assert.Equal(t, 30, got.Factors.ChasingRally)
		assert.Equal(t, 15, got.Factors.FOMO, "recent activity suppresses the sudden entry rule")
		assert.Equal(t, 11, got.Factors.HighFrequency)
		assert.Equal(t, 56, got.Total)
		assert.Equal(t, models.LevelCaution, got.Level)

		recent = concat(recent, actionsAt(5, 3*time.Hour, "INFY"))
		got = Score(buy(100), history, recent)
		assert.Equal(t, 60, got.Total)
		assert.Equal(t, models.LevelDanger, got.Level)
		assert.True(t, got.ShouldBlock)
		assert.Equal(t, SummaryDanger, got.Warnings[0])
	})

	t.Run("calm", func(t *testing.T) {
		got := Score(buy(90), models.PriceHistory{DayHigh: 100}, nil)
		assert.Zero(t, got.Total)
		assert.Equal(t, models.LevelCalm, got.Level)
		require.Len(t, got.Warnings, 1)
		assert.Equal(t, SummaryCalm, got.Warnings[0])
	})
}

func TestScore_DoesNotModifyRecent(t *testing.T) {
	recent := concat(actionsAt(2, time.Hour, "TCS"), actionsAt(2, time.Minute, "INFY"))
	before := append([]models.TradeAction(nil), recent...)

	Score(buy(100), models.PriceHistory{DayHigh: 101}, recent)
	assert.Equal(t, before, recent)
}

func TestReport(t *testing.T) {
	history := models.PriceHistory{DayHigh: 100, PriceChange1d: 6, PriceChange5d: 25, Volume: 400, AvgVolume: 100}
	recent := concat(actionsAt(5, 10*time.Minute, "INFY"), actionsAt(10, 2*time.Hour, "INFY"))
	score := Score(buy(100), history, recent)
	require.True(t, score.ShouldBlock)

	report := Report(score)
	assert.Contains(t, report, "Risk level: DANGER")
	assert.Contains(t, report, "- FOMO:           15/20")
	assert.Contains(t, report, "- "+SummaryDanger)
	assert.True(t, strings.HasSuffix(report, "cooling-off period.\n"))

	calm := Report(Score(buy(90), models.PriceHistory{DayHigh: 100}, nil))
	assert.NotContains(t, calm, "Recommendation")
}

func TestThresholds(t *testing.T) {
	th := Thresholds()
	assert.Len(t, th, 13+2*len(FrequencyTiers))
	for _, x := range th {
		assert.Equal(t, "emotion", x.Component)
	}
}
