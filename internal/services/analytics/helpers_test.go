package analytics

import (
	"math"
	"time"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

// approxEqual checks float equality within epsilon
func approxEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func buy(asset string, qty, price, fee float64, at time.Time) models.Transaction {
	return models.Transaction{AssetID: asset, Type: models.TxBuy, Quantity: qty, Price: price, Fee: fee, TradeTime: at}
}

func sell(asset string, qty, price, fee float64, at time.Time) models.Transaction {
	return models.Transaction{AssetID: asset, Type: models.TxSell, Quantity: qty, Price: price, Fee: fee, TradeTime: at}
}

func price(asset string, at time.Time, close float64) models.PricePoint {
	return models.PricePoint{AssetID: asset, Date: at, Close: close}
}

// series builds a daily value series starting at start, one value per day.
func series(start time.Time, values ...float64) []models.DailyValue {
	out := make([]models.DailyValue, len(values))
	for i, v := range values {
		out[i] = models.DailyValue{Date: start.AddDate(0, 0, i), Value: v}
	}
	return out
}

// faultsOfKind filters faults by kind.
func faultsOfKind(faults []models.Fault, kind models.FaultKind) []models.Fault {
	var out []models.Fault
	for _, f := range faults {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
