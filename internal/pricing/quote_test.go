package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vantagefleet/build-orders/internal/catalog"
)

func TestQuoteBreakdown(t *testing.T) {
	bodies := map[string]catalog.Body{
		"Service Body": {BasePrice: map[string]float64{"9ft": 18000}},
	}
	sel := Selection{
		Series:       "F-450",
		Cab:          "Regular Cab",
		Drivetrain:   "4x2",
		PowertrainID: "f450-diesel-67",
		BodyType:     "Service Body",
		BodySpecs:    map[string]string{"length": "9ft"},
		Units:        1,
	}

	b := Quote(sel, testChassis(), bodies, catalog.Options{}, nil, DefaultConfig())
	assert.Equal(t, 64000.0, b.ChassisMSRP)
	assert.Equal(t, 18000.0, b.BodyPrice)
	assert.Equal(t, 1500.0, b.Freight)
	assert.Equal(t, 83500.0, b.Subtotal)
	assert.Equal(t, 83500.0, b.TaxableAmount)
	assert.Equal(t, 7306.0, b.Taxes)
	assert.Equal(t, 90806.0, b.Total)
	assert.Empty(t, b.IncentiveIDs)
}

func TestQuoteTaxesPostIncentiveAmount(t *testing.T) {
	bodies := map[string]catalog.Body{
		"Service Body": {BasePrice: map[string]float64{"9ft": 18000}},
	}
	incentives := []catalog.Incentive{
		{ID: "season-cash", Amount: 750},
		{ID: "fleet-5", Amount: 1500, Conditions: catalog.IncentiveConditions{MinUnits: 5}},
	}
	sel := Selection{
		Series:       "F-450",
		Cab:          "Regular Cab",
		Drivetrain:   "4x2",
		PowertrainID: "f450-diesel-67",
		BodyType:     "Service Body",
		BodySpecs:    map[string]string{"length": "9ft"},
		Units:        6,
	}

	b := Quote(sel, testChassis(), bodies, catalog.Options{}, incentives, DefaultConfig())
	assert.Equal(t, []string{"season-cash", "fleet-5"}, b.IncentiveIDs)
	assert.Equal(t, 2250.0, b.TotalIncentives)
	assert.Equal(t, 81250.0, b.TaxableAmount)
	assert.Equal(t, 7109.0, b.Taxes)
	assert.Equal(t, 88359.0, b.Total)
}

func TestRateForTier(t *testing.T) {
	rates := []catalog.FinancingRate{
		{CreditTier: "Tier 1", APR: 5.9},
		{CreditTier: "Tier 2", APR: 7.4},
	}

	apr, ok := RateForTier(rates, "tier 2")
	assert.True(t, ok)
	assert.Equal(t, 7.4, apr)

	apr, ok = RateForTier(rates, "Tier 9")
	assert.False(t, ok)
	assert.Equal(t, 5.9, apr, "first entry is the fallback")

	apr, ok = RateForTier(nil, "Tier 1")
	assert.False(t, ok)
	assert.Zero(t, apr)
}
