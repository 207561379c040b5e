package breaker

import (
	"fmt"

	apperrors "trading-discipline/internal/errors"
	"trading-discipline/internal/models"
)

// Question is one item of the post-lock self-check.
type Question struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Expected bool   `json:"expected"`
}

var questions = []Question{
	{ID: "losses_reviewed", Text: "Have I reviewed every losing trade in the streak?", Expected: true},
	{ID: "familiar_pattern", Text: "Were the losing trades taken in patterns I know well?", Expected: true},
	{ID: "selection_criteria", Text: "Did each entry meet my selection criteria?", Expected: true},
	{ID: "clear_logic", Text: "Can I clearly explain the logic behind each of those trades?", Expected: true},
	{ID: "key_position", Text: "Were entries made at key levels rather than by chasing?", Expected: true},
	{ID: "stop_loss_set", Text: "Was a stop-loss set and honoured on every losing trade?", Expected: true},
	{ID: "volatility_check", Text: "Is market volatility back within a normal range?", Expected: true},
	{ID: "leader_fatigue", Text: "Are market leaders still showing signs of fatigue?", Expected: false},
	{ID: "revenge_trading", Text: "Do I mainly want to trade to win back the recent losses?", Expected: false},
	{ID: "calm_mind", Text: "Am I calm now rather than driven by emotion?", Expected: true},
}

// ReviewQuestions returns the fixed self-check questionnaire.
func ReviewQuestions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// ReviewScore returns the share of questions answered as expected.
// Unanswered questions count as wrong; unknown ids are ignored.
func ReviewScore(answers map[string]bool) float64 {
	correct := 0
	for _, q := range questions {
		if a, ok := answers[q.ID]; ok && a == q.Expected {
			correct++
		}
	}
	return float64(correct) / float64(len(questions))
}

// CanUnlock reports whether the answers pass the self-check.
func CanUnlock(answers map[string]bool) bool {
	return ReviewScore(answers) >= UnlockPassRatio
}

// Unlock clears a LOCKED state after a completed review. The current loss
// streak is recorded as acknowledged so it does not lock again by itself.
func Unlock(state models.CircuitBreakerState, reviewCompleted bool, answers map[string]bool) (models.CircuitBreakerState, error) {
	if state.Status != models.BreakerLocked {
		return state, fmt.Errorf("%w: status is %s", apperrors.ErrNotLocked, displayStatus(state.Status))
	}
	if !reviewCompleted {
		return state, fmt.Errorf("%w: review not completed", apperrors.ErrUnlockDenied)
	}
	if score := ReviewScore(answers); score < UnlockPassRatio {
		return state, fmt.Errorf("%w: %.0f%% of review answers correct, %.0f%% required",
			apperrors.ErrUnlockDenied, score*100, UnlockPassRatio*100)
	}

	state.Status = models.BreakerNormal
	state.IsActive = false
	state.ActiveUntil = nil
	state.AcknowledgedLosses = state.ConsecutiveLosses
	state.LossesUntilLock = lossesUntilLock(state.ConsecutiveLosses, state.AcknowledgedLosses)
	return state, nil
}

func displayStatus(s models.BreakerStatus) models.BreakerStatus {
	if s == "" {
		return models.BreakerNormal
	}
	return s
}
