package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

// ledger replays transactions in trade-time order, maintaining one
// average-cost position per asset. The cursor only moves forward, so
// advancing day by day costs O(transactions) overall.
type ledger struct {
	txs       []models.Transaction // sorted by trade time ascending
	cursor    int                  // next transaction to apply
	positions map[string]*models.Position
	assetIDs  []string // every asset that appears in txs, sorted

	dividends decimal.Decimal
	realized  decimal.Decimal
	faults    []models.Fault
}

// newLedger copies and sorts transactions. Ties on trade time keep input order.
func newLedger(txs []models.Transaction) *ledger {
	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TradeTime.Before(sorted[j].TradeTime)
	})

	seen := make(map[string]bool)
	var ids []string
	for _, t := range sorted {
		if t.AssetID == "" || seen[t.AssetID] {
			continue
		}
		seen[t.AssetID] = true
		ids = append(ids, t.AssetID)
	}
	sort.Strings(ids)

	return &ledger{
		txs:       sorted,
		positions: make(map[string]*models.Position, len(ids)),
		assetIDs:  ids,
	}
}

// advanceTo applies every transaction whose trade date is on or before day.
func (l *ledger) advanceTo(day time.Time) {
	for l.cursor < len(l.txs) {
		t := l.txs[l.cursor]
		if t.TradeDate().After(day) {
			break // trade is in the future, stop
		}
		l.apply(t)
		l.cursor++
	}
}

// advanceBefore applies every transaction whose trade date is strictly before day.
func (l *ledger) advanceBefore(day time.Time) {
	l.advanceTo(day.AddDate(0, 0, -1))
}

func (l *ledger) position(assetID string) *models.Position {
	p, ok := l.positions[assetID]
	if !ok {
		p = &models.Position{AssetID: assetID}
		l.positions[assetID] = p
	}
	return p
}

// apply folds one transaction into the ledger.
func (l *ledger) apply(t models.Transaction) {
	rate := decimal.NewFromFloat(t.Rate())

	switch t.Type {
	case models.TxBuy:
		p := l.position(t.AssetID)
		qty := decimal.NewFromFloat(math.Abs(t.Quantity))
		cost := qty.Mul(decimal.NewFromFloat(t.Price)).
			Add(decimal.NewFromFloat(t.Fee)).
			Add(decimal.NewFromFloat(t.Tax)).
			Mul(rate)
		p.Quantity = p.Quantity.Add(qty)
		p.AccumulatedCost = p.AccumulatedCost.Add(cost)

	case models.TxSell:
		p := l.position(t.AssetID)
		qty := decimal.NewFromFloat(math.Abs(t.Quantity))
		if qty.GreaterThan(p.Quantity) {
			l.faults = append(l.faults, models.PositionConsistencyFault(t.AssetID, t.TradeDate(), p.Quantity.String(), qty.String()))
			return
		}
		costOut := p.AvgCost().Mul(qty)
		proceeds := qty.Mul(decimal.NewFromFloat(t.Price)).
			Sub(decimal.NewFromFloat(t.Fee)).
			Sub(decimal.NewFromFloat(t.Tax)).
			Mul(rate)
		pnl := proceeds.Sub(costOut)
		p.RealizedPnL = p.RealizedPnL.Add(pnl)
		l.realized = l.realized.Add(pnl)
		p.Quantity = p.Quantity.Sub(qty)
		if p.Quantity.IsZero() {
			p.AccumulatedCost = decimal.Zero
		} else {
			p.AccumulatedCost = p.AccumulatedCost.Sub(costOut)
		}

	case models.TxSplit:
		// Share delta at zero cost; the basis is spread over the new count.
		p := l.position(t.AssetID)
		delta := decimal.NewFromFloat(t.Quantity)
		after := p.Quantity.Add(delta)
		if after.IsNegative() {
			l.faults = append(l.faults, models.PositionConsistencyFault(t.AssetID, t.TradeDate(), p.Quantity.String(), delta.Neg().String()))
			return
		}
		p.Quantity = after

	case models.TxDividend:
		l.dividends = l.dividends.Add(decimal.NewFromFloat(t.CashAmount()))
	}
	// FEE, TAX and FX move neither quantity nor basis.
}

// held returns the positive quantity held for assetID, or false when flat.
func (l *ledger) held(assetID string) (float64, bool) {
	p, ok := l.positions[assetID]
	if !ok || !p.Quantity.IsPositive() {
		return 0, false
	}
	return p.Quantity.InexactFloat64(), true
}

// snapshot returns a copy of every non-empty position, keyed by asset.
func (l *ledger) snapshot() map[string]models.Position {
	out := make(map[string]models.Position, len(l.positions))
	for id, p := range l.positions {
		if p.Quantity.IsZero() && p.RealizedPnL.IsZero() {
			continue
		}
		out[id] = *p
	}
	return out
}

// ReplayPositions replays transactions up to and including asOf and returns the
// resulting positions plus any consistency faults.
func ReplayPositions(txs []models.Transaction, asOf time.Time) (map[string]models.Position, []models.Fault) {
	l := newLedger(txs)
	l.advanceTo(models.Day(asOf))
	return l.snapshot(), l.faults
}
