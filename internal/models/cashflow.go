package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashFlow is a dated, signed investor cash movement used for XIRR.
// Negative = capital paid in; positive = capital returned.
type CashFlow struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// DailyValue is the market value of the portfolio at the close of one calendar day.
type DailyValue struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Position is the replayed state of one asset at a point in time.
// Quantity and cost are kept in decimal so average-cost arithmetic does not drift.
type Position struct {
	AssetID         string          `json:"asset_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	AccumulatedCost decimal.Decimal `json:"accumulated_cost"`
	RealizedPnL     decimal.Decimal `json:"realized_pnl"`
}

// AvgCost returns the average cost per held unit, or zero when flat.
func (p Position) AvgCost() decimal.Decimal {
	if !p.Quantity.IsPositive() {
		return decimal.Zero
	}
	return p.AccumulatedCost.Div(p.Quantity)
}
