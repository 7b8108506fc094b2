package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vantagefleet/build-orders/internal/catalog"
)

func testChassis() []catalog.Chassis {
	return []catalog.Chassis{
		{
			Series: "F-450",
			Trims: []catalog.Trim{
				{
					Cab:        "Regular Cab",
					Drivetrain: "4x2",
					Powertrains: []catalog.Powertrain{
						{ID: "f450-gas-73", Name: "7.3L V8 Gas", BasePrice: 58500, Type: "gas"},
						{ID: "f450-diesel-67", Name: "6.7L V8 Diesel", BasePrice: 64000, Type: "diesel"},
					},
				},
				{
					Cab:        "Crew Cab",
					Drivetrain: "4x4",
					Powertrains: []catalog.Powertrain{
						{ID: "f450-diesel-67", Name: "6.7L V8 Diesel", BasePrice: 67200, Type: "diesel"},
					},
				},
			},
		},
	}
}

func testBodies() map[string]catalog.Body {
	return map[string]catalog.Body{
		"Service Body": {
			Specifications: map[string][]string{"length": {"9ft", "11ft"}},
			BasePrice:      map[string]float64{"9ft": 18000, "11ft": 20500},
			LaborPrice:     3200,
		},
		"Flatbed": {
			Specifications: map[string][]string{"bedLength": {"9ft", "11ft"}},
			BasePrice:      map[string]float64{"9ft": 8200, "11ft": 9500},
			LaborPrice:     1800,
		},
	}
}

func testOptions() catalog.Options {
	return catalog.Options{CommonAccessories: map[string]catalog.Accessory{
		"ladder-rack": {Name: "Ladder Rack", Price: 850},
		"tow-pkg":     {Name: "Gooseneck Tow Package", Price: 1450},
	}}
}

func TestComputePricesFullSelection(t *testing.T) {
	sel := Selection{
		Series:          "F-450",
		Cab:             "Regular Cab",
		Drivetrain:      "4x2",
		PowertrainID:    "f450-diesel-67",
		BodyType:        "Service Body",
		BodySpecs:       map[string]string{"length": "9ft"},
		BodyAccessories: []string{"ladder-rack", "tow-pkg"},
	}

	b := Compute(sel, testChassis(), testBodies(), testOptions())
	assert.Equal(t, 64000.0, b.ChassisMSRP)
	assert.Equal(t, 18000.0, b.BodyPrice)
	assert.Equal(t, 2300.0, b.OptionsPrice)
	assert.Equal(t, 3200.0, b.LaborPrice)
	assert.Equal(t, 87500.0, b.Subtotal)
}

func TestChassisMSRPPrefersTrimMatch(t *testing.T) {
	// The same powertrain id exists on two trims at different prices; the
	// trim matching cab and drivetrain wins.
	sel := Selection{Series: "F-450", Cab: "Crew Cab", Drivetrain: "4x4", PowertrainID: "f450-diesel-67"}
	b := Compute(sel, testChassis(), nil, catalog.Options{})
	assert.Equal(t, 67200.0, b.ChassisMSRP)
}

func TestChassisMSRPFallsBackToFirstTrim(t *testing.T) {
	sel := Selection{Series: "F-450", PowertrainID: "no-such-engine"}
	b := Compute(sel, testChassis(), nil, catalog.Options{})
	assert.Equal(t, 58500.0, b.ChassisMSRP)

	sel = Selection{Series: "F-450"}
	b = Compute(sel, testChassis(), nil, catalog.Options{})
	assert.Equal(t, 58500.0, b.ChassisMSRP)

	sel = Selection{Series: "F-750"}
	b = Compute(sel, testChassis(), nil, catalog.Options{})
	assert.Equal(t, 0.0, b.ChassisMSRP)
}

func TestBodyPriceDimensionPriority(t *testing.T) {
	bodies := testBodies()

	// "length" outranks "bedLength" even when both are present.
	sel := Selection{
		BodyType:  "Service Body",
		BodySpecs: map[string]string{"length": "11ft", "bedLength": "9ft"},
	}
	b := Compute(sel, nil, bodies, catalog.Options{})
	assert.Equal(t, 20500.0, b.BodyPrice)

	// Flatbed prices off bedLength.
	sel = Selection{BodyType: "Flatbed", BodySpecs: map[string]string{"bedLength": "11ft"}}
	b = Compute(sel, nil, bodies, catalog.Options{})
	assert.Equal(t, 9500.0, b.BodyPrice)
}

func TestBodyPriceFallbackIsStable(t *testing.T) {
	bodies := testBodies()
	sel := Selection{BodyType: "Service Body", BodySpecs: map[string]string{"length": "14ft"}}
	for i := 0; i < 5; i++ {
		b := Compute(sel, nil, bodies, catalog.Options{})
		assert.Equal(t, 20500.0, b.BodyPrice, "sorted-first fallback: 11ft sorts before 9ft")
	}
}

func TestChassisOnlyHasNoBodyOrLabor(t *testing.T) {
	sel := Selection{Series: "F-450", BodyType: catalog.BodyTypeChassisOnly}
	b := Compute(sel, testChassis(), testBodies(), catalog.Options{})
	assert.Zero(t, b.BodyPrice)
	assert.Zero(t, b.LaborPrice)
}

func TestMonthlyPayment(t *testing.T) {
	// 6.9% APR, 60 months, 20% down on 90000.
	p := MonthlyPayment(90000, 6.9, 60, 0.2)
	assert.InDelta(t, 1422.29, p, 0.01)

	// Zero APR degrades to simple division.
	p = MonthlyPayment(50000, 0, 60, 0.2)
	assert.InDelta(t, 50000*0.8/60, p, 1e-9)

	assert.Zero(t, MonthlyPayment(50000, 6.9, 0, 0.2))
	assert.Zero(t, MonthlyPayment(50000, 6.9, 60, 1.0))
}
