// Package models defines data structures for vire-analytics
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionType categorizes a portfolio transaction.
type TransactionType string

const (
	TxBuy      TransactionType = "BUY"
	TxSell     TransactionType = "SELL"
	TxDividend TransactionType = "DIVIDEND"
	TxFee      TransactionType = "FEE"
	TxTax      TransactionType = "TAX"
	TxSplit    TransactionType = "SPLIT"
	TxFX       TransactionType = "FX"
)

var validTransactionTypes = map[TransactionType]bool{
	TxBuy:      true,
	TxSell:     true,
	TxDividend: true,
	TxFee:      true,
	TxTax:      true,
	TxSplit:    true,
	TxFX:       true,
}

// ValidTransactionType returns true if t is a recognised transaction type.
func ValidTransactionType(t TransactionType) bool {
	return validTransactionTypes[t]
}

// ParseTransactionType normalises a type string ("buy", " Sell ") to a TransactionType.
func ParseTransactionType(s string) (TransactionType, bool) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	return t, validTransactionTypes[t]
}

// Transaction is an immutable record of a single account event.
// Monetary fields are in the trade currency; FXRate converts them to the
// portfolio currency.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	AssetID     string          `json:"asset_id"`
	Type        TransactionType `json:"type"`
	Quantity    float64         `json:"quantity"`
	Price       float64         `json:"price"`
	Fee         float64         `json:"fee"`
	Tax         float64         `json:"tax"`
	GrossAmount float64         `json:"gross_amount"`
	Currency    string          `json:"currency"`
	FXRate      float64         `json:"fx_rate_to_portfolio_currency"`
	TradeTime   time.Time       `json:"trade_time"`
	Notes       string          `json:"notes,omitempty"`
}

// QuantityDelta returns the signed change in held units this transaction causes.
// BUY is always positive and SELL always negative regardless of the stored sign;
// SPLIT carries its own signed share delta. Other types do not move quantity.
func (t Transaction) QuantityDelta() float64 {
	switch t.Type {
	case TxBuy:
		return math.Abs(t.Quantity)
	case TxSell:
		return -math.Abs(t.Quantity)
	case TxSplit:
		return t.Quantity
	default:
		return 0
	}
}

// Rate returns the conversion rate to the portfolio currency (0 means same currency).
func (t Transaction) Rate() float64 {
	if t.FXRate == 0 {
		return 1
	}
	return t.FXRate
}

// CashAmount returns the signed cash impact on the investor in portfolio currency:
// money paid in (buys, fees, taxes) is negative, money returned (sales, dividends)
// is positive. SPLIT and FX events move no cash.
func (t Transaction) CashAmount() float64 {
	var amount float64
	switch t.Type {
	case TxBuy:
		amount = -(math.Abs(t.Quantity)*t.Price + t.Fee + t.Tax)
	case TxSell:
		amount = math.Abs(t.Quantity)*t.Price - t.Fee - t.Tax
	case TxDividend:
		amount = t.GrossAmount - t.Fee - t.Tax
	case TxFee, TxTax:
		amount = -math.Abs(t.GrossAmount)
	default:
		return 0
	}
	return amount * t.Rate()
}

// TradeDate returns the calendar day of the trade in its own location.
func (t Transaction) TradeDate() time.Time {
	return Day(t.TradeTime)
}

// PricePoint is an end-of-day close for one asset.
type PricePoint struct {
	AssetID  string    `json:"asset_id"`
	Date     time.Time `json:"date"`
	Close    float64   `json:"close"`
	Currency string    `json:"currency,omitempty"`
}

// UnmarshalJSON accepts the date as a plain day ("2024-01-31") or an RFC3339
// timestamp.
func (p *PricePoint) UnmarshalJSON(data []byte) error {
	type plain PricePoint
	aux := struct {
		Date string `json:"date"`
		*plain
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Date == "" {
		p.Date = time.Time{}
		return nil
	}
	d, err := ParseDay(aux.Date)
	if err != nil {
		return fmt.Errorf("price %s: date %q: %w", p.AssetID, aux.Date, err)
	}
	p.Date = d
	return nil
}

// DateFormat is the ISO-8601 layout used for day-granular dates.
const DateFormat = "2006-01-02"

// Day returns the calendar day of t as midnight UTC, keeping t's own year/month/day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses "2006-01-02" (or an RFC3339 timestamp) into a Day.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}
