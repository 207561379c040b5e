// Package emotion scores how impulsive a trade action looks, given the recent
// price movement of the instrument and the trader's own trading cadence.
//
// Score is advisory. It returns a recommendation and a blocking hint; acting on
// the hint is up to the caller.
package emotion

import (
	"fmt"
	"math"
	"time"

	"trading-discipline/internal/models"
	"trading-discipline/internal/window"
)

// Summary lines prepended to every score's warnings.
const (
	SummaryDanger  = "emotional trading risk is very high: stop and cool down before trading"
	SummaryCaution = "emotional trading tendency detected: decide carefully"
	SummaryCalm    = "decision looks rational"
)

// Score evaluates action against the price snapshot and the recent action log.
// Missing context simply contributes nothing: a sell never scores chasing or
// FOMO points, a buy never scores panic points, and a zero day high, day low
// or average volume disables the rules that divide by it.
func Score(action models.TradeAction, history models.PriceHistory, recent []models.TradeAction) models.EmotionScore {
	var (
		factors  models.EmotionFactors
		warnings []string
		w        []string
	)

	// Every frequency and FOMO lookback is measured back from the action under evaluation.
	win := window.New[models.TradeAction](action.Timestamp, QuietPeriod)
	for _, a := range recent {
		win.Add(a.Timestamp, a)
	}

	switch action.Type {
	case models.ActionBuy:
		factors.ChasingRally, w = chasingRally(action, history)
		warnings = append(warnings, w...)
	case models.ActionSell:
		factors.PanicSelling, w = panicSelling(action, history)
		warnings = append(warnings, w...)
	}

	factors.HighFrequency, w = highFrequency(win)
	warnings = append(warnings, w...)

	if action.Type == models.ActionBuy {
		factors.FOMO, w = fomo(action, history, win)
		warnings = append(warnings, w...)
	}

	total := factors.Sum()
	level, summary := classify(total)

	return models.EmotionScore{
		Total:       total,
		Level:       level,
		Factors:     factors,
		Warnings:    append([]string{summary}, warnings...),
		ShouldBlock: total >= DangerScore,
	}
}

func classify(total int) (models.EmotionLevel, string) {
	switch {
	case total >= DangerScore:
		return models.LevelDanger, SummaryDanger
	case total >= CautionScore:
		return models.LevelCaution, SummaryCaution
	default:
		return models.LevelCalm, SummaryCalm
	}
}

func clamp(score, limit int) int {
	if score > limit {
		return limit
	}
	if score < 0 {
		return 0
	}
	return score
}

func chasingRally(action models.TradeAction, h models.PriceHistory) (int, []string) {
	score := 0
	var warnings []string

	if h.DayHigh > 0 {
		distance := (h.DayHigh - action.Price) / h.DayHigh * 100
		switch {
		case distance < NearExtremePct:
			score += NearExtremePts
			warnings = append(warnings, "price is at the day high, high risk of buying the top")
		case distance < CloseExtremePct:
			score += CloseExtremePts
			warnings = append(warnings, "price is near the day high, consider waiting for a pullback")
		}
	}

	switch {
	case h.PriceChange1d > SharpMove1dPct:
		score += SharpMove1dPts
		warnings = append(warnings, fmt.Sprintf("up %.2f%% today, chasing risk is high", h.PriceChange1d))
	case h.PriceChange1d > MildMove1dPct:
		score += MildMove1dPts
		warnings = append(warnings, fmt.Sprintf("up %.2f%% today, watch out for chasing", h.PriceChange1d))
	}

	switch {
	case h.PriceChange5d > SharpMove5dPct:
		score += SharpMove5dPts
		warnings = append(warnings, fmt.Sprintf("up %.2f%% over 5 days, possibly near a swing high", h.PriceChange5d))
	case h.PriceChange5d > MildMove5dPct:
		score += MildMove5dPts
		warnings = append(warnings, fmt.Sprintf("up %.2f%% over 5 days, be careful buying strength", h.PriceChange5d))
	}

	return clamp(score, MaxChasingRally), warnings
}

func panicSelling(action models.TradeAction, h models.PriceHistory) (int, []string) {
	score := 0
	var warnings []string

	if h.DayLow > 0 {
		distance := (action.Price - h.DayLow) / h.DayLow * 100
		switch {
		case distance < NearExtremePct:
			score += NearExtremePts
			warnings = append(warnings, "price is at the day low, this may be a panic sale")
		case distance < CloseExtremePct:
			score += CloseExtremePts
			warnings = append(warnings, "price is near the day low, analyze calmly before selling")
		}
	}

	switch {
	case h.PriceChange1d < -SharpMove1dPct:
		score += SharpMove1dPts
		warnings = append(warnings, fmt.Sprintf("down %.2f%% today, avoid panic selling", math.Abs(h.PriceChange1d)))
	case h.PriceChange1d < -MildMove1dPct:
		score += MildMove1dPts
		warnings = append(warnings, fmt.Sprintf("down %.2f%% today, stay calm", math.Abs(h.PriceChange1d)))
	}

	switch {
	case h.PriceChange5d < -SharpMove5dPct:
		score += SharpMove5dPts
		warnings = append(warnings, fmt.Sprintf("down %.2f%% over 5 days, may be close to a bottom", math.Abs(h.PriceChange5d)))
	case h.PriceChange5d < -MildMove5dPct:
		score += MildMove5dPts
		warnings = append(warnings, fmt.Sprintf("down %.2f%% over 5 days, avoid selling blindly", math.Abs(h.PriceChange5d)))
	}

	return clamp(score, MaxPanicSelling), warnings
}

var frequencyWarnings = map[string][2]string{
	"hour": {"%d trades in the last hour, trading far too often", "%d trades in the last hour, slow down"},
	"day":  {"%d trades in the last day, possible overtrading", "%d trades in the last day, watch your frequency"},
	"week": {"%d trades in the last 7 days, trade less", "%d trades in the last 7 days, stay rational"},
}

func highFrequency(win *window.Window[models.TradeAction]) (int, []string) {
	spans := make([]time.Duration, len(FrequencyTiers))
	for i, tier := range FrequencyTiers {
		spans[i] = tier.Span
	}
	counts := win.Counts(spans...)

	score := 0
	var warnings []string
	for i, tier := range FrequencyTiers {
		n := counts[i]
		text := frequencyWarnings[tier.Name]
		switch {
		case n >= tier.Heavy:
			score += tier.HeavyPts
			warnings = append(warnings, fmt.Sprintf(text[0], n))
		case n >= tier.Moderate:
			score += tier.LightPts
			warnings = append(warnings, fmt.Sprintf(text[1], n))
		}
	}
	return clamp(score, MaxHighFrequency), warnings
}

func fomo(action models.TradeAction, h models.PriceHistory, win *window.Window[models.TradeAction]) (int, []string) {
	score := 0
	var warnings []string

	if h.AvgVolume > 0 {
		ratio := h.Volume / h.AvgVolume
		switch {
		case ratio > VolumeSurgeRatio:
			score += VolumeSurgePts
			warnings = append(warnings, fmt.Sprintf("volume is %.1fx average, market sentiment is overheated", ratio))
		case ratio > VolumeElevatedRatio:
			score += VolumeElevatedPts
			warnings = append(warnings, "volume is clearly elevated, mind the crowd")
		}
	}

	if h.PriceChange5d > RunUp5dPct {
		score += RunUp5dPts
		warnings = append(warnings, "short-term run-up is large, this buy may be FOMO driven")
	}

	if h.PriceChange1d > SuddenEntry1dPct && !win.Any(sameInstrument(action.Symbol)) {
		score += SuddenEntryPts
		warnings = append(warnings, "sudden buy right after a big move with no recent activity in this name")
	}

	return clamp(score, MaxFOMO), warnings
}

// sameInstrument matches actions on symbol. Actions without a symbol match anything.
func sameInstrument(symbol string) func(models.TradeAction) bool {
	return func(a models.TradeAction) bool {
		return symbol == "" || a.Symbol == "" || a.Symbol == symbol
	}
}
