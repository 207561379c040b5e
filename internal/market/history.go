// Package market builds the short-term price snapshot the emotion scorer
// reads from candles a caller already holds. It does not fetch data.
package market

import (
	"fmt"
	"math"
	"sort"

	"github.com/markcheno/go-talib"

	apperrors "trading-discipline/internal/errors"
	"trading-discipline/internal/models"
)

const (
	// MinDailyCandles is the minimum daily history needed for a 1-day change.
	MinDailyCandles = 2

	// AvgVolumePeriod is the number of prior sessions averaged for AvgVolume.
	AvgVolumePeriod = 20
)

// BuildPriceHistory derives a PriceHistory from daily candles and, optionally,
// the current session's intraday candles.
//
// The last daily candle is the current session. Percentage changes compare its
// close with the close 1, 5 and 30 sessions earlier, falling back to the oldest
// close available. AvgVolume averages up to 20 sessions before the current one.
// When session candles are given they supply the current price and the day's
// high and low.
func BuildPriceHistory(symbol string, daily, session []models.Candle) (models.PriceHistory, error) {
	if len(daily) < MinDailyCandles {
		return models.PriceHistory{}, fmt.Errorf("%w: need at least %d daily candles, got %d",
			apperrors.ErrInsufficientData, MinDailyCandles, len(daily))
	}
	if err := validateCandles("daily", daily); err != nil {
		return models.PriceHistory{}, err
	}
	if err := validateCandles("session", session); err != nil {
		return models.PriceHistory{}, err
	}

	daily = sorted(daily)
	n := len(daily)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, c := range daily {
		closes[i] = c.Close
		volumes[i] = float64(c.Volume)
	}

	last := daily[n-1]
	h := models.PriceHistory{
		Symbol:         symbol,
		CurrentPrice:   last.Close,
		DayHigh:        last.High,
		DayLow:         last.Low,
		PriceChange1d:  change(closes, 1),
		PriceChange5d:  change(closes, 5),
		PriceChange30d: change(closes, 30),
		Volume:         volumes[n-1],
	}

	prior := volumes[:n-1]
	period := AvgVolumePeriod
	if len(prior) < period {
		period = len(prior)
	}
	h.AvgVolume = talib.Sma(prior, period)[len(prior)-1]

	if len(session) > 0 {
		session = sorted(session)
		h.CurrentPrice = session[len(session)-1].Close
		h.DayHigh, h.DayLow = sessionRange(session)
		var vol int64
		for _, c := range session {
			vol += c.Volume
		}
		h.Volume = float64(vol)
	}

	if err := h.Validate(); err != nil {
		return models.PriceHistory{}, err
	}
	return h, nil
}

// change returns the percentage change of the last close over period sessions,
// shortening the period when the history is too short.
func change(closes []float64, period int) float64 {
	if period > len(closes)-1 {
		period = len(closes) - 1
	}
	return talib.Roc(closes, period)[len(closes)-1]
}

func sessionRange(session []models.Candle) (high, low float64) {
	if len(session) == 1 {
		return session[0].High, session[0].Low
	}
	highs := make([]float64, len(session))
	lows := make([]float64, len(session))
	for i, c := range session {
		highs[i] = c.High
		lows[i] = c.Low
	}
	n := len(session)
	return talib.Max(highs, n)[n-1], talib.Min(lows, n)[n-1]
}

func sorted(candles []models.Candle) []models.Candle {
	out := make([]models.Candle, len(candles))
	copy(out, candles)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func validateCandles(kind string, candles []models.Candle) error {
	for i, c := range candles {
		field := fmt.Sprintf("%s[%d]", kind, i)
		for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
			if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				return apperrors.NewValidationError(field, v, "prices must be positive finite numbers")
			}
		}
		if c.Low > c.High {
			return apperrors.NewValidationError(field, c.Low, "low must not exceed high")
		}
		if c.Volume < 0 {
			return apperrors.NewValidationError(field, c.Volume, "volume must not be negative")
		}
	}
	return nil
}
