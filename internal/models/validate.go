package models

import (
	"math"

	apperrors "trading-discipline/internal/errors"
)

func finiteNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return apperrors.NewValidationError(field, v, "must be a finite number")
	}
	if v < 0 {
		return apperrors.NewValidationError(field, v, "must not be negative")
	}
	return nil
}

// Validate checks the plan's enumerations and numeric fields.
func (p TradePlan) Validate() error {
	if !p.Direction.Valid() {
		return apperrors.NewValidationError("plan.direction", p.Direction, "must be long or short")
	}
	checks := []struct {
		field string
		value float64
	}{
		{"plan.plannedEntryPrice", p.PlannedEntryPrice},
		{"plan.plannedQuantity", p.PlannedQuantity},
		{"plan.plannedStopLoss", p.PlannedStopLoss},
		{"plan.plannedTakeProfit", p.PlannedTakeProfit},
	}
	for _, c := range checks {
		if err := finiteNonNegative(c.field, c.value); err != nil {
			return err
		}
	}
	if r := p.PlannedEntryRange; r != nil && r.Low > r.High {
		return apperrors.NewValidationError("plan.plannedEntryRange", *r, "low must not exceed high")
	}
	return nil
}

// Validate checks the trade's status, plan and recorded values.
func (t Trade) Validate() error {
	if !t.Status.Valid() {
		return apperrors.NewValidationError("status", t.Status, "unknown trade status")
	}
	if err := t.Plan.Validate(); err != nil {
		return err
	}
	checks := []struct {
		field string
		value float64
	}{
		{"entryPrice", t.EntryPrice},
		{"entryQuantity", t.EntryQuantity},
		{"exitPrice", t.ExitPrice},
		{"exitQuantity", t.ExitQuantity},
		{"stopLossPrice", t.StopLossPrice},
	}
	for _, c := range checks {
		if err := finiteNonNegative(c.field, c.value); err != nil {
			return err
		}
	}
	if math.IsNaN(t.NetPnL) || math.IsInf(t.NetPnL, 0) {
		return apperrors.NewValidationError("netPnl", t.NetPnL, "must be a finite number")
	}
	if t.EntryTime != nil && t.ExitTime != nil && t.ExitTime.Before(*t.EntryTime) {
		return apperrors.NewValidationError("exitTime", *t.ExitTime, "must not precede entryTime")
	}
	return nil
}

// Validate checks the action's type and price.
func (a TradeAction) Validate() error {
	if !a.Type.Valid() {
		return apperrors.NewValidationError("type", a.Type, "must be buy or sell")
	}
	if err := finiteNonNegative("price", a.Price); err != nil {
		return err
	}
	return finiteNonNegative("quantity", a.Quantity)
}

// Validate checks the snapshot for non-finite or negative levels.
// Percentage changes may be negative.
func (h PriceHistory) Validate() error {
	levels := []struct {
		field string
		value float64
	}{
		{"currentPrice", h.CurrentPrice},
		{"dayHigh", h.DayHigh},
		{"dayLow", h.DayLow},
		{"volume", h.Volume},
		{"avgVolume", h.AvgVolume},
	}
	for _, l := range levels {
		if err := finiteNonNegative(l.field, l.value); err != nil {
			return err
		}
	}
	for field, v := range map[string]float64{
		"priceChange1d":  h.PriceChange1d,
		"priceChange5d":  h.PriceChange5d,
		"priceChange30d": h.PriceChange30d,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.NewValidationError(field, v, "must be a finite number")
		}
	}
	return nil
}

// Validate checks the result outcome and P&L.
func (r TradeResult) Validate() error {
	if !r.Result.Valid() {
		return apperrors.NewValidationError("result", r.Result, "must be win or loss")
	}
	if math.IsNaN(r.ProfitLoss) || math.IsInf(r.ProfitLoss, 0) {
		return apperrors.NewValidationError("profitLoss", r.ProfitLoss, "must be a finite number")
	}
	return nil
}

// Validate checks the record's alert type.
func (r ExecutionRecord) Validate() error {
	if !r.Type.Valid() {
		return apperrors.NewValidationError("type", r.Type, "must be stop_loss or take_profit")
	}
	return nil
}
