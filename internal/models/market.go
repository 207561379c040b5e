package models

import "time"

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Open      float64   `json:"open" yaml:"open"`
	High      float64   `json:"high" yaml:"high"`
	Low       float64   `json:"low" yaml:"low"`
	Close     float64   `json:"close" yaml:"close"`
	Volume    int64     `json:"volume" yaml:"volume"`
}

// PriceHistory is a read-only short-term snapshot supplied fresh per evaluation.
// Change fields are percentages (5 means +5%).
type PriceHistory struct {
	Symbol         string  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	CurrentPrice   float64 `json:"currentPrice" yaml:"currentPrice"`
	DayHigh        float64 `json:"dayHigh" yaml:"dayHigh"`
	DayLow         float64 `json:"dayLow" yaml:"dayLow"`
	PriceChange1d  float64 `json:"priceChange1d" yaml:"priceChange1d"`
	PriceChange5d  float64 `json:"priceChange5d" yaml:"priceChange5d"`
	PriceChange30d float64 `json:"priceChange30d" yaml:"priceChange30d"`
	Volume         float64 `json:"volume" yaml:"volume"`
	AvgVolume      float64 `json:"avgVolume" yaml:"avgVolume"`
}

// TradeAction represents an atomic buy or sell event.
type TradeAction struct {
	Type      ActionType `json:"type" yaml:"type"`
	Symbol    string     `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Price     float64    `json:"price" yaml:"price"`
	Timestamp time.Time  `json:"timestamp" yaml:"timestamp"`
	Quantity  float64    `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}
