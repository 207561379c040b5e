package models

import "time"

// EmotionFactors holds the four independent emotional-risk sub-scores.
type EmotionFactors struct {
	ChasingRally  int `json:"chasingRally"`  // 0-30
	PanicSelling  int `json:"panicSelling"`  // 0-30
	HighFrequency int `json:"highFrequency"` // 0-20
	FOMO          int `json:"fomo"`          // 0-20
}

// Sum returns the composite of all factors.
func (f EmotionFactors) Sum() int {
	return f.ChasingRally + f.PanicSelling + f.HighFrequency + f.FOMO
}

// EmotionScore is the advisory verdict for a single trade action.
// Total always equals Factors.Sum() and ShouldBlock is Total >= 60.
type EmotionScore struct {
	Total       int            `json:"total"`
	Level       EmotionLevel   `json:"level"`
	Factors     EmotionFactors `json:"factors"`
	Warnings    []string       `json:"warnings"`
	ShouldBlock bool           `json:"shouldBlock"`
}

// CircuitBreakerState is derived from a rolling window of trade results.
type CircuitBreakerState struct {
	Status            BreakerStatus `json:"status"`
	ConsecutiveLosses int           `json:"consecutiveLosses"`
	ConsecutiveWins   int           `json:"consecutiveWins"`
	WinRate           float64       `json:"winRate"`
	ProfitFactor      float64       `json:"profitFactor"`
	PatternMatchScore float64       `json:"patternMatchScore"`
	IsActive          bool          `json:"isActive"`
	LossesUntilLock   int           `json:"lossesUntilLock"`
	// AcknowledgedLosses is the loss streak length cleared by the last completed review.
	AcknowledgedLosses int `json:"acknowledgedLosses,omitempty"`
	WindowSize         int `json:"windowSize"`
	// ActiveUntil is a display hint owned by callers. The engine never sets or reads it.
	ActiveUntil *time.Time `json:"activeUntil,omitempty"`
}

// Threshold describes one fixed rule constant, for display and audit.
type Threshold struct {
	Component string  `json:"component"`
	Rule      string  `json:"rule"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit,omitempty"`
}
