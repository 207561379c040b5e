package models

import "time"

// PriceRange represents an acceptable entry band.
type PriceRange struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Contains reports whether price falls inside the band, inclusive.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Low && price <= r.High
}

// TradePlan represents the trader's pre-committed intent.
// A plan is never edited once its trade is active; a strategy change is a new plan.
// Zero prices and quantities mean "not planned" and disable the matching rule.
type TradePlan struct {
	ID                string      `json:"id,omitempty" yaml:"id,omitempty"`
	Symbol            string      `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Direction         Direction   `json:"direction,omitempty" yaml:"direction,omitempty"`
	PlannedEntryPrice float64     `json:"plannedEntryPrice,omitempty" yaml:"plannedEntryPrice,omitempty"`
	PlannedEntryRange *PriceRange `json:"plannedEntryRange,omitempty" yaml:"plannedEntryRange,omitempty"`
	PlannedQuantity   float64     `json:"plannedQuantity,omitempty" yaml:"plannedQuantity,omitempty"`
	PlannedStopLoss   float64     `json:"plannedStopLoss,omitempty" yaml:"plannedStopLoss,omitempty"`
	PlannedTakeProfit float64     `json:"plannedTakeProfit,omitempty" yaml:"plannedTakeProfit,omitempty"`
	StrategyTags      []string    `json:"strategyTags,omitempty" yaml:"strategyTags,omitempty"`
	CreatedAt         time.Time   `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// HasTag reports whether the plan carries the given strategy tag.
func (p TradePlan) HasTag(tag string) bool {
	for _, t := range p.StrategyTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Trade represents what actually happened against a plan.
type Trade struct {
	ID            string      `json:"id,omitempty" yaml:"id,omitempty"`
	Symbol        string      `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Status        TradeStatus `json:"status" yaml:"status"`
	Plan          TradePlan   `json:"plan" yaml:"plan"`
	EntryPrice    float64     `json:"entryPrice,omitempty" yaml:"entryPrice,omitempty"`
	EntryQuantity float64     `json:"entryQuantity,omitempty" yaml:"entryQuantity,omitempty"`
	ExitPrice     float64     `json:"exitPrice,omitempty" yaml:"exitPrice,omitempty"`
	ExitQuantity  float64     `json:"exitQuantity,omitempty" yaml:"exitQuantity,omitempty"`
	StopLossPrice float64     `json:"stopLossPrice,omitempty" yaml:"stopLossPrice,omitempty"`
	EntryTime     *time.Time  `json:"entryTime,omitempty" yaml:"entryTime,omitempty"`
	ExitTime      *time.Time  `json:"exitTime,omitempty" yaml:"exitTime,omitempty"`
	UpdatedAt     time.Time   `json:"updatedAt" yaml:"updatedAt"`
	NetPnL        float64     `json:"netPnl,omitempty" yaml:"netPnl,omitempty"`

	// Derived. Recomputed whenever status or recorded values change.
	Violations    []Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
	ViolationCost float64     `json:"violationCost,omitempty" yaml:"violationCost,omitempty"`
}

// Violation represents a measured deviation between planned and actual trade parameters.
type Violation struct {
	Type         ViolationType `json:"type" yaml:"type"`
	Severity     Severity      `json:"severity" yaml:"severity"`
	PlannedValue float64       `json:"plannedValue" yaml:"plannedValue"`
	ActualValue  float64       `json:"actualValue" yaml:"actualValue"`
	Description  string        `json:"description" yaml:"description"`
	DetectedAt   time.Time     `json:"detectedAt" yaml:"detectedAt"`
}

// TradeResult represents one closed trade in the circuit breaker window.
type TradeResult struct {
	ID         string    `json:"id,omitempty" yaml:"id,omitempty"`
	Symbol     string    `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Date       time.Time `json:"date,omitempty" yaml:"date,omitempty"`
	Result     Outcome   `json:"result" yaml:"result"`
	ProfitLoss float64   `json:"profitLoss" yaml:"profitLoss"`
	Reason     string    `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// IsWin reports whether the trade closed as a win.
func (r TradeResult) IsWin() bool {
	return r.Result == OutcomeWin
}
