package analytics

import (
	"sort"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

// DefaultTopHoldings is the number of ranked positions in an allocation report.
const DefaultTopHoldings = 10

// CalculateAllocation breaks the current market value of holdings down by asset
// type, region, sector and currency, and ranks the largest positions.
// Group maps hold aggregate market value per key. When the total is zero every
// weight is undefined: top-holding weights are nil and a degenerate-division
// fault is attached.
func CalculateAllocation(holdings []models.Holding, topN int) *models.AllocationReport {
	if topN <= 0 {
		topN = DefaultTopHoldings
	}

	ranked := make([]models.Holding, len(holdings))
	copy(ranked, holdings)
	sort.SliceStable(ranked, func(i, j int) bool {
		mi, mj := ranked[i].MarketValue(), ranked[j].MarketValue()
		if mi != mj {
			return mi > mj
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	var total float64
	for _, h := range ranked {
		total += h.MarketValue()
	}

	report := &models.AllocationReport{
		TotalValue: total,
		ByType:     make(map[string]float64),
		ByRegion:   make(map[string]float64),
		BySector:   make(map[string]float64),
		ByCurrency: make(map[string]float64),
	}

	defined := total != 0
	if !defined && len(ranked) > 0 {
		report.Faults = append(report.Faults,
			models.DegenerateDivisionFault("allocation_weight", "portfolio market value is zero; weights are undefined"))
	}

	// Summation runs in ranked order so the floating-point result is stable.
	for _, h := range ranked {
		mv := h.MarketValue()
		report.ByType[models.GroupKey(h.Type)] += mv
		report.ByRegion[models.GroupKey(h.Region)] += mv
		report.BySector[models.GroupKey(h.Sector)] += mv
		report.ByCurrency[models.GroupKey(h.Currency)] += mv
	}

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	report.TopHoldings = make([]models.TopHolding, 0, len(ranked))
	for _, h := range ranked {
		th := models.TopHolding{
			Symbol:      h.Symbol,
			Name:        h.Name,
			MarketValue: h.MarketValue(),
		}
		if defined {
			th.Weight = models.Float(h.MarketValue() / total)
		}
		report.TopHoldings = append(report.TopHoldings, th)
	}
	return report
}
