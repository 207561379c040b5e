package models

import "time"

// ExitAlert represents a crossed or approaching exit level.
type ExitAlert struct {
	Type            AlertType `json:"type" yaml:"type"`
	Level           int       `json:"level,omitempty" yaml:"level,omitempty"` // 1-3 for take-profit targets
	TriggerPrice    float64   `json:"triggerPrice" yaml:"triggerPrice"`
	CurrentPrice    float64   `json:"currentPrice" yaml:"currentPrice"`
	SuggestedAction string    `json:"suggestedAction" yaml:"suggestedAction"`
	Urgency         Urgency   `json:"urgency" yaml:"urgency"`
	DelayWarning    string    `json:"delayWarning,omitempty" yaml:"delayWarning,omitempty"`
}

// ExecutionRecord is an audit entry describing how a triggered exit was handled.
// The engine only builds it; persisting it is the caller's job.
type ExecutionRecord struct {
	ID             string     `json:"id,omitempty" yaml:"id,omitempty"`
	PlanID         string     `json:"planId" yaml:"planId"`
	Type           AlertType  `json:"type" yaml:"type"`
	TriggerTime    time.Time  `json:"triggerTime" yaml:"triggerTime"`
	ExecutionTime  *time.Time `json:"executionTime,omitempty" yaml:"executionTime,omitempty"`
	TriggerPrice   float64    `json:"triggerPrice" yaml:"triggerPrice"`
	ExecutionPrice *float64   `json:"executionPrice,omitempty" yaml:"executionPrice,omitempty"`
	DelaySeconds   *int64     `json:"delaySeconds,omitempty" yaml:"delaySeconds,omitempty"`
	Executed       bool       `json:"executed" yaml:"executed"`
	Reason         string     `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ExecutionStats summarizes a set of execution records.
// Rates are percentages; AverageDelay is in seconds.
type ExecutionStats struct {
	StopLossExecutionRate   float64 `json:"stopLossExecutionRate"`
	TakeProfitExecutionRate float64 `json:"takeProfitExecutionRate"`
	AverageDelay            float64 `json:"averageDelay"`
	TotalExecuted           int     `json:"totalExecuted"`
	TotalTriggered          int     `json:"totalTriggered"`
}
