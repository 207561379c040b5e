// Package models provides domain models for the trading discipline engine.
package models

import (
	"fmt"

	apperrors "trading-discipline/internal/errors"
)

// TradeStatus represents the lifecycle state of a trade.
type TradeStatus string

const (
	StatusPlanned   TradeStatus = "planned"
	StatusPending   TradeStatus = "pending"
	StatusActive    TradeStatus = "active"
	StatusClosed    TradeStatus = "closed"
	StatusCancelled TradeStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s TradeStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusPending, StatusActive, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// rank orders statuses along the forward-only lifecycle.
// Closed and cancelled are both terminal.
func (s TradeStatus) rank() int {
	switch s {
	case StatusPlanned:
		return 0
	case StatusPending:
		return 1
	case StatusActive:
		return 2
	case StatusClosed, StatusCancelled:
		return 3
	}
	return -1
}

// CanAdvanceTo reports whether moving from s to next keeps the lifecycle moving forward.
func (s TradeStatus) CanAdvanceTo(next TradeStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.rank() == 3 {
		return false
	}
	return next.rank() > s.rank()
}

func (s *TradeStatus) UnmarshalText(b []byte) error {
	v := TradeStatus(b)
	if !v.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, string(b))
	}
	*s = v
	return nil
}

// Direction represents which side of the market a plan takes.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Valid reports whether d is a known direction. Empty means long.
func (d Direction) Valid() bool {
	return d == "" || d == DirectionLong || d == DirectionShort
}

// IsShort reports whether profit is made when price falls.
func (d Direction) IsShort() bool {
	return d == DirectionShort
}

func (d *Direction) UnmarshalText(b []byte) error {
	v := Direction(b)
	if !v.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidDirection, string(b))
	}
	*d = v
	return nil
}

// ViolationType identifies which planned parameter was breached.
type ViolationType string

const (
	ViolationEntryPrice   ViolationType = "entry_price"
	ViolationPositionSize ViolationType = "position_size"
	ViolationStopLoss     ViolationType = "stop_loss"
	ViolationTakeProfit   ViolationType = "take_profit"
	ViolationHoldingTime  ViolationType = "holding_time"
	ViolationAddPosition  ViolationType = "add_position"
)

// Valid reports whether t is a known violation type.
func (t ViolationType) Valid() bool {
	switch t {
	case ViolationEntryPrice, ViolationPositionSize, ViolationStopLoss,
		ViolationTakeProfit, ViolationHoldingTime, ViolationAddPosition:
		return true
	}
	return false
}

func (t *ViolationType) UnmarshalText(b []byte) error {
	v := ViolationType(b)
	if !v.Valid() {
		return fmt.Errorf("%w: violation type %q", apperrors.ErrInputValidation, string(b))
	}
	*t = v
	return nil
}

// Severity grades a violation.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

func (s *Severity) UnmarshalText(b []byte) error {
	v := Severity(b)
	if !v.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidSeverity, string(b))
	}
	*s = v
	return nil
}

// ActionType represents the side of a trade action.
type ActionType string

const (
	ActionBuy  ActionType = "buy"
	ActionSell ActionType = "sell"
)

// Valid reports whether a is buy or sell.
func (a ActionType) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

func (a *ActionType) UnmarshalText(b []byte) error {
	v := ActionType(b)
	if !v.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidActionType, string(b))
	}
	*a = v
	return nil
}

// AlertType identifies which exit level produced an alert.
type AlertType string

const (
	AlertStopLoss   AlertType = "stop_loss"
	AlertTakeProfit AlertType = "take_profit"
)

// Valid reports whether a is a known alert type.
func (a AlertType) Valid() bool {
	return a == AlertStopLoss || a == AlertTakeProfit
}

func (a *AlertType) UnmarshalText(b []byte) error {
	v := AlertType(b)
	if !v.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidAlertType, string(b))
	}
	*a = v
	return nil
}

// Urgency grades how quickly an exit alert should be acted on.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// EmotionLevel classifies a composite emotional-risk score.
type EmotionLevel string

const (
	LevelCalm    EmotionLevel = "calm"
	LevelCaution EmotionLevel = "caution"
	LevelDanger  EmotionLevel = "danger"
)

// Outcome is the result of a closed trade.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// Valid reports whether o is win or loss.
func (o Outcome) Valid() bool {
	return o == OutcomeWin || o == OutcomeLoss
}

func (o *Outcome) UnmarshalText(b []byte) error {
	v := Outcome(b)
	if !v.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidTradeResult, string(b))
	}
	*o = v
	return nil
}

// BreakerStatus represents the state of the consecutive-loss circuit breaker.
type BreakerStatus string

const (
	BreakerNormal  BreakerStatus = "NORMAL"
	BreakerWarning BreakerStatus = "WARNING"
	BreakerLocked  BreakerStatus = "LOCKED"
)

// Valid reports whether s is a known breaker status. Empty means NORMAL.
func (s BreakerStatus) Valid() bool {
	return s == "" || s == BreakerNormal || s == BreakerWarning || s == BreakerLocked
}

func (s *BreakerStatus) UnmarshalText(b []byte) error {
	v := BreakerStatus(b)
	if !v.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidBreaker, string(b))
	}
	*s = v
	return nil
}
