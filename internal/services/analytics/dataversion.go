package analytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/bobmcallan/vire-analytics/internal/common"
	"github.com/bobmcallan/vire-analytics/internal/models"
)

// DataVersion fingerprints the inputs of a report. Two calls over the same
// transactions and prices, in any order, give the same version; any edit to
// an amount, date or type gives a different one. Prices are fingerprinted
// after same-day duplicates are resolved, so reordering duplicates changes the
// version exactly when it changes the close used. The schema version is part
// of the stamp so cached reports go stale when the report shape changes.
func DataVersion(txs []models.Transaction, prices ...[]models.PricePoint) string {
	h := xxhash.New()

	txLines := make([]string, len(txs))
	for i, t := range txs {
		txLines[i] = t.ID.String() + "|" + t.AssetID + "|" + string(t.Type) + "|" +
			t.TradeTime.UTC().Format("2006-01-02T15:04:05.999999999") + "|" +
			fmtFloat(t.Quantity) + "|" + fmtFloat(t.Price) + "|" +
			fmtFloat(t.Fee) + "|" + fmtFloat(t.Tax) + "|" +
			fmtFloat(t.GrossAmount) + "|" + fmtFloat(t.FXRate)
	}
	sort.Strings(txLines)
	for _, line := range txLines {
		_, _ = h.WriteString(line)
		_, _ = h.WriteString("\n")
	}

	for set, pts := range prices {
		// hash the closes valuation will use, after same-day duplicates are resolved
		lines := make([]string, 0, len(pts))
		for _, resolved := range newPriceIndex(pts) {
			for _, p := range resolved {
				lines = append(lines, p.AssetID+"|"+p.Date.Format(models.DateFormat)+"|"+fmtFloat(p.Close))
			}
		}
		sort.Strings(lines)
		_, _ = h.WriteString("#" + strconv.Itoa(set) + "\n")
		for _, line := range lines {
			_, _ = h.WriteString(line)
			_, _ = h.WriteString("\n")
		}
	}

	return fmt.Sprintf("%s-%016x", common.SchemaVersion, h.Sum64())
}

func fmtFloat(v float64) string {
	if v == 0 {
		v = math.Abs(v) // fold -0 into 0
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// SettingsVersion fingerprints the engine settings a performance report
// depends on. It is appended to the data version so a configuration change
// makes cached reports stale.
func SettingsVersion(riskFreeRate float64, opts XIRROptions) string {
	stamp := strings.Join([]string{
		fmtFloat(riskFreeRate),
		fmtFloat(opts.Guess),
		fmtFloat(opts.Lower),
		fmtFloat(opts.Upper),
		fmtFloat(opts.Tolerance),
		strconv.Itoa(opts.MaxIterations),
	}, "|")
	return fmt.Sprintf("%016x", xxhash.Sum64String(stamp))
}
