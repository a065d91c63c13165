package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

func holding(symbol, typ, region, sector, currency string, qty, px float64) models.Holding {
	return models.Holding{
		AssetID: symbol, Symbol: symbol, Name: symbol + " Corp",
		Type: typ, Region: region, Sector: sector, Currency: currency,
		Quantity: qty, Price: px,
	}
}

func TestCalculateAllocation_WeightsSumToOne(t *testing.T) {
	holdings := []models.Holding{
		holding("AAA", "stock", "US", "Tech", "USD", 3, 101.7),
		holding("BBB", "etf", "EU", "", "EUR", 7, 33.3),
		holding("CCC", "bond", "", "Gov", "USD", 11, 97.1),
		holding("DDD", "stock", "AU", "Mining", "AUD", 0.5, 1234.5),
		holding("EEE", "crypto", "", "", "", 0.013, 42000),
	}

	r := CalculateAllocation(holdings, 10)

	sum := 0.0
	for _, th := range r.TopHoldings {
		require.NotNil(t, th.Weight)
		sum += *th.Weight
	}
	if !approxEqual(sum, 1.0, 1e-9) {
		t.Errorf("sum of weights = %v, want 1", sum)
	}
	assert.Empty(t, r.Faults)
}

func TestCalculateAllocation_GroupsByKey(t *testing.T) {
	holdings := []models.Holding{
		holding("AAA", "stock", "US", "Tech", "USD", 10, 10), // 100
		holding("BBB", "stock", "EU", "", "EUR", 5, 40),      // 200
		holding("CCC", "etf", "", "Tech", "USD", 1, 300),     // 300
	}

	r := CalculateAllocation(holdings, 0)

	assert.InDelta(t, 600.0, r.TotalValue, 1e-9)
	assert.Equal(t, map[string]float64{"stock": 300, "etf": 300}, r.ByType)
	assert.Equal(t, map[string]float64{"US": 100, "EU": 200, models.UnknownGroup: 300}, r.ByRegion)
	assert.Equal(t, map[string]float64{"Tech": 400, models.UnknownGroup: 200}, r.BySector)
	assert.Equal(t, map[string]float64{"USD": 400, "EUR": 200}, r.ByCurrency)
}

func TestCalculateAllocation_TopHoldingsOrder(t *testing.T) {
	var holdings []models.Holding
	// 12 holdings; two ties on market value resolved by symbol.
	for i := 0; i < 12; i++ {
		holdings = append(holdings, holding(fmt.Sprintf("S%02d", i), "stock", "US", "Tech", "USD", 1, float64(100+i)))
	}
	holdings = append(holdings,
		holding("ZZZ", "stock", "US", "Tech", "USD", 2, 100), // 200
		holding("AAB", "stock", "US", "Tech", "USD", 4, 50),  // 200
	)

	r := CalculateAllocation(holdings, 10)

	require.Len(t, r.TopHoldings, 10)
	assert.Equal(t, "AAB", r.TopHoldings[0].Symbol)
	assert.Equal(t, "ZZZ", r.TopHoldings[1].Symbol)
	assert.Equal(t, "S11", r.TopHoldings[2].Symbol)
	for i := 1; i < len(r.TopHoldings); i++ {
		if r.TopHoldings[i].MarketValue > r.TopHoldings[i-1].MarketValue {
			t.Errorf("top holdings not descending at %d", i)
		}
	}
}

func TestCalculateAllocation_DefaultTopN(t *testing.T) {
	var holdings []models.Holding
	for i := 0; i < 15; i++ {
		holdings = append(holdings, holding(fmt.Sprintf("S%02d", i), "stock", "US", "Tech", "USD", 1, 1))
	}
	assert.Len(t, CalculateAllocation(holdings, 0).TopHoldings, DefaultTopHoldings)
	assert.Len(t, CalculateAllocation(holdings, 3).TopHoldings, 3)
}

func TestCalculateAllocation_ZeroTotalWeightsUndefined(t *testing.T) {
	holdings := []models.Holding{
		holding("AAA", "stock", "US", "Tech", "USD", 10, 0),
		holding("BBB", "stock", "US", "Tech", "USD", 0, 12),
	}

	r := CalculateAllocation(holdings, 10)

	assert.Equal(t, 0.0, r.TotalValue)
	require.Len(t, r.TopHoldings, 2)
	for _, th := range r.TopHoldings {
		assert.Nil(t, th.Weight, "%s weight must be undefined", th.Symbol)
	}
	faults := faultsOfKind(r.Faults, models.FaultDegenerateDivision)
	require.Len(t, faults, 1)
	assert.Equal(t, "allocation_weight", faults[0].Metric)
}

func TestCalculateAllocation_Empty(t *testing.T) {
	r := CalculateAllocation(nil, 10)

	assert.Equal(t, 0.0, r.TotalValue)
	assert.Empty(t, r.TopHoldings)
	assert.NotNil(t, r.TopHoldings, "encodes as [] not null")
	assert.Empty(t, r.Faults)
	assert.Empty(t, r.ByType)
}
