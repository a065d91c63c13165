package models

import (
	"strings"

	"github.com/google/uuid"
)

// UnknownGroup is the allocation bucket for holdings with a missing group key.
const UnknownGroup = "unknown"

// Asset is the static description of an instrument.
type Asset struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"` // stock, etf, bond, crypto, fund, cash
	Sector   string `json:"sector,omitempty"`
	Region   string `json:"region,omitempty"`
	Currency string `json:"currency"`
}

// Holding is a current position with its latest price resolved.
type Holding struct {
	AssetID  string  `json:"asset_id"`
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Sector   string  `json:"sector,omitempty"`
	Region   string  `json:"region,omitempty"`
	Currency string  `json:"currency"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// MarketValue returns quantity × price.
func (h Holding) MarketValue() float64 {
	return h.Quantity * h.Price
}

// GroupKey normalises an allocation group key, mapping blanks to UnknownGroup.
func GroupKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownGroup
	}
	return s
}

// PortfolioBundle is the complete input snapshot for one portfolio,
// as produced by the persistence/import layer.
type PortfolioBundle struct {
	PortfolioID     uuid.UUID     `json:"portfolio_id"`
	Name            string        `json:"name"`
	BaseCurrency    string        `json:"base_currency"`
	Assets          []Asset       `json:"assets"`
	Transactions    []Transaction `json:"transactions"`
	Prices          []PricePoint  `json:"prices"`
	BenchmarkID     string        `json:"benchmark_id,omitempty"`
	BenchmarkPrices []PricePoint  `json:"benchmark_prices,omitempty"`
}
