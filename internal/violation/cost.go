package violation

import (
	"github.com/shopspring/decimal"

	"trading-discipline/internal/models"
)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// EstimateCost estimates the money lost to plan violations.
//
// Cached trade.Violations are used when present; otherwise the trade is
// evaluated. Position size and holding time deviations are not quantifiable
// and contribute nothing.
func EstimateCost(trade models.Trade) float64 {
	violations := trade.Violations
	if violations == nil {
		violations = Detect(trade)
	}

	total := decimal.Zero
	for _, v := range violations {
		switch v.Type {
		case models.ViolationEntryPrice:
			total = total.Add(entryCost(trade, v))
		case models.ViolationStopLoss:
			if trade.NetPnL < 0 {
				total = total.Add(dec(trade.NetPnL).Abs().Mul(dec(StopLossCostFactor)))
			}
		case models.ViolationTakeProfit:
			total = total.Add(missedProfit(trade))
		}
	}

	cost, _ := total.Float64()
	return cost
}

func entryCost(trade models.Trade, v models.Violation) decimal.Decimal {
	qty := trade.EntryQuantity
	if qty == 0 {
		qty = trade.Plan.PlannedQuantity
	}
	return dec(v.ActualValue).Sub(dec(v.PlannedValue)).Abs().Mul(dec(qty))
}

// missedProfit is the gain left on the table by exiting before the planned target.
func missedProfit(trade models.Trade) decimal.Decimal {
	target := trade.Plan.PlannedTakeProfit
	if target == 0 || trade.ExitPrice == 0 || trade.EntryPrice == 0 {
		return decimal.Zero
	}
	perUnit := dec(target).Sub(dec(trade.ExitPrice))
	if trade.Plan.Direction.IsShort() {
		perUnit = perUnit.Neg()
	}
	missed := perUnit.Mul(dec(trade.ExitQuantity))
	if !missed.IsPositive() {
		return decimal.Zero
	}
	return missed
}
