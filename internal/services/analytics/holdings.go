package analytics

import (
	"sort"
	"time"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

// BuildHoldings derives the positions open at the close of asOf, priced at
// their latest close on or before that day and decorated with asset metadata.
// Assets with no price yet are reported as data gaps and left out. The result
// is ordered by asset id.
func BuildHoldings(txs []models.Transaction, prices []models.PricePoint, assets []models.Asset, asOf time.Time) ([]models.Holding, []models.Fault) {
	day := models.Day(asOf)
	positions, faults := ReplayPositions(txs, day)
	idx := newPriceIndex(prices)

	meta := make(map[string]models.Asset, len(assets))
	for _, a := range assets {
		meta[a.ID] = a
	}

	ids := make([]string, 0, len(positions))
	for id, p := range positions {
		if p.Quantity.IsPositive() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	holdings := make([]models.Holding, 0, len(ids))
	for _, id := range ids {
		closePrice, _, found := idx.closeAsOf(id, day)
		if !found {
			faults = append(faults, models.DataGapFault(id, day))
			continue
		}
		a := meta[id]
		symbol := a.Symbol
		if symbol == "" {
			symbol = id
		}
		holdings = append(holdings, models.Holding{
			AssetID:  id,
			Symbol:   symbol,
			Name:     a.Name,
			Type:     a.Type,
			Sector:   a.Sector,
			Region:   a.Region,
			Currency: a.Currency,
			Quantity: positions[id].Quantity.InexactFloat64(),
			Price:    closePrice,
		})
	}
	return holdings, faults
}
