package analytics

import (
	"sort"
	"time"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

// SeriesResult is the output of the valuation series builder.
type SeriesResult struct {
	Values []models.DailyValue
	// OpeningValue is the value of positions carried into the window, priced on
	// the day before Start. Zero when nothing was held. An asset unpriced by
	// then is valued at its first close in the window and reported as a gap.
	OpeningValue float64
	// Positions is the replayed state at the close of End.
	Positions         map[string]models.Position
	DividendsReceived float64
	RealizedPnL       float64
	Faults            []models.Fault
}

// CurrentValue returns the last day's value, or zero for an empty series.
func (r *SeriesResult) CurrentValue() float64 {
	if len(r.Values) == 0 {
		return 0
	}
	return r.Values[len(r.Values)-1].Value
}

// priceIndex holds each asset's closes ascending by day, one point per day.
type priceIndex map[string][]models.PricePoint

// newPriceIndex groups and sorts prices. When an asset has more than one point
// on the same day the last one supplied wins.
func newPriceIndex(prices []models.PricePoint) priceIndex {
	idx := make(priceIndex)
	for _, p := range prices {
		p.Date = models.Day(p.Date)
		idx[p.AssetID] = append(idx[p.AssetID], p)
	}
	for id, pts := range idx {
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })
		deduped := pts[:0]
		for _, p := range pts {
			if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(p.Date) {
				deduped[n-1] = p
				continue
			}
			deduped = append(deduped, p)
		}
		idx[id] = deduped
	}
	return idx
}

// closeAsOf returns the most recent close on or before day (last observation
// carried forward) using binary search.
func (idx priceIndex) closeAsOf(assetID string, day time.Time) (closePrice float64, priceDate time.Time, found bool) {
	pts := idx[assetID]
	if len(pts) == 0 {
		return 0, time.Time{}, false
	}

	// first index strictly after day; the answer is the one before it
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Date.After(day) })
	if i == 0 {
		return 0, time.Time{}, false
	}
	p := pts[i-1]
	return p.Close, p.Date, true
}

// closeFrom returns the earliest close on or after from and no later than to.
func (idx priceIndex) closeFrom(assetID string, from, to time.Time) (float64, bool) {
	pts := idx[assetID]
	i := sort.Search(len(pts), func(i int) bool { return !pts[i].Date.Before(from) })
	if i == len(pts) || pts[i].Date.After(to) {
		return 0, false
	}
	return pts[i].Close, true
}

// generateCalendarDates produces one date per day from start to end (inclusive).
func generateCalendarDates(start, end time.Time) []time.Time {
	start = models.Day(start)
	end = models.Day(end)

	if end.Before(start) {
		return nil
	}

	days := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// valueHoldings prices every held asset as of day. Assets without a price on or
// before day are left out and reported as data gaps.
func valueHoldings(l *ledger, idx priceIndex, day time.Time, gaps *[]models.Fault) float64 {
	var total float64
	for _, id := range l.assetIDs {
		qty, ok := l.held(id)
		if !ok {
			continue
		}
		closePrice, _, found := idx.closeAsOf(id, day)
		if !found {
			*gaps = append(*gaps, models.DataGapFault(id, day))
			continue
		}
		total += qty * closePrice
	}
	return total
}

// valueOpening prices the positions carried into [start, end] on the day
// before start. An asset with no close by then is recorded as a data gap on
// that day and priced at its first close inside the window, so the opening and
// terminal cash flows cover the same holdings.
func valueOpening(l *ledger, idx priceIndex, start, end time.Time, gaps *[]models.Fault) float64 {
	prev := start.AddDate(0, 0, -1)
	var total float64
	for _, id := range l.assetIDs {
		qty, ok := l.held(id)
		if !ok {
			continue
		}
		if closePrice, _, found := idx.closeAsOf(id, prev); found {
			total += qty * closePrice
			continue
		}
		gap := models.DataGapFault(id, prev)
		gap.Metric = "opening_value"
		*gaps = append(*gaps, gap)
		if closePrice, found := idx.closeFrom(id, start, end); found {
			total += qty * closePrice
		}
	}
	return total
}

// BuildDailyValues reconstructs the portfolio's market value for every calendar
// day in [start, end]. Transactions may be in any order; all of those on or
// before a day are replayed to obtain that day's holdings. Fees and taxes do not
// enter the valuation. Returns an empty series when start is after end.
func BuildDailyValues(txs []models.Transaction, prices []models.PricePoint, start, end time.Time) *SeriesResult {
	result := &SeriesResult{}

	dates := generateCalendarDates(start, end)
	l := newLedger(txs)
	idx := newPriceIndex(prices)

	var gaps []models.Fault
	if len(dates) > 0 {
		l.advanceBefore(dates[0])
		result.OpeningValue = valueOpening(l, idx, dates[0], dates[len(dates)-1], &gaps)
	}
	// dividends and realised P&L are reported for the window only
	dividendsBefore, realizedBefore := l.dividends, l.realized

	result.Values = make([]models.DailyValue, 0, len(dates))
	for _, day := range dates {
		l.advanceTo(day)
		result.Values = append(result.Values, models.DailyValue{
			Date:  day,
			Value: valueHoldings(l, idx, day, &gaps),
		})
	}

	result.Positions = l.snapshot()
	result.DividendsReceived = l.dividends.Sub(dividendsBefore).InexactFloat64()
	result.RealizedPnL = l.realized.Sub(realizedBefore).InexactFloat64()
	result.Faults = append(l.faults, gaps...)
	return result
}
