package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/vire-analytics/internal/common"
	"github.com/bobmcallan/vire-analytics/internal/models"
)

func TestDataVersion_OrderIndependent(t *testing.T) {
	d := day(2024, 1, 1)
	a := buy("AAA", 10, 10, 1, d)
	b := sell("AAA", 3, 12, 0, d.AddDate(0, 0, 2))
	p1 := price("AAA", d, 10)
	p2 := price("AAA", d.AddDate(0, 0, 1), 11)

	v1 := DataVersion([]models.Transaction{a, b}, []models.PricePoint{p1, p2})
	v2 := DataVersion([]models.Transaction{b, a}, []models.PricePoint{p2, p1})

	assert.Equal(t, v1, v2)
	assert.True(t, strings.HasPrefix(v1, common.SchemaVersion+"-"), "version %q carries the schema", v1)
}

func TestDataVersion_DetectsEdits(t *testing.T) {
	d := day(2024, 1, 1)
	txs := []models.Transaction{buy("AAA", 10, 10, 1, d)}
	prices := []models.PricePoint{price("AAA", d, 10)}
	base := DataVersion(txs, prices)

	edited := []models.Transaction{buy("AAA", 10, 10, 2, d)}
	assert.NotEqual(t, base, DataVersion(edited, prices), "fee edit")

	repriced := []models.PricePoint{price("AAA", d, 10.01)}
	assert.NotEqual(t, base, DataVersion(txs, repriced), "price edit")

	assert.NotEqual(t, base, DataVersion(txs, prices, []models.PricePoint{price("IDX", d, 1)}), "benchmark added")
}

func TestDataVersion_PriceSetsAreDistinct(t *testing.T) {
	d := day(2024, 1, 1)
	p := []models.PricePoint{price("AAA", d, 10)}

	// the same points as asset prices or as benchmark prices are different inputs
	assert.NotEqual(t, DataVersion(nil, p, nil), DataVersion(nil, nil, p))
}

func TestDataVersion_DuplicateOrderFollowsValuation(t *testing.T) {
	d := day(2024, 1, 1)
	first := price("AAA", d, 10)
	second := price("AAA", d, 11)
	txs := []models.Transaction{buy("AAA", 1, 10, 0, d)}

	a := []models.PricePoint{first, second}
	b := []models.PricePoint{second, first}

	// the later duplicate is the close used, so the two orders value differently
	assert.NotEqual(t,
		BuildDailyValues(txs, a, d, d).CurrentValue(),
		BuildDailyValues(txs, b, d, d).CurrentValue())
	assert.NotEqual(t, DataVersion(txs, a), DataVersion(txs, b))

	// a duplicate that does not change the resolved close leaves the version alone
	assert.Equal(t, DataVersion(txs, []models.PricePoint{second}), DataVersion(txs, a))
}

func TestSettingsVersion(t *testing.T) {
	base := SettingsVersion(0.02, DefaultXIRROptions())
	assert.Equal(t, base, SettingsVersion(0.02, DefaultXIRROptions()))
	assert.NotEqual(t, base, SettingsVersion(0.05, DefaultXIRROptions()))

	opts := DefaultXIRROptions()
	opts.MaxIterations = 50
	assert.NotEqual(t, base, SettingsVersion(0.02, opts))
}
