package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostMultipliersDeterministicAndBanded(t *testing.T) {
	ids := []string{"ord-1", "ord-2", "a2f81c04", "b917", ""}
	for _, id := range ids {
		m1 := CostMultipliers(id, 90806)
		m2 := CostMultipliers(id, 90806)
		assert.Equal(t, m1, m2, "same inputs, same multipliers")

		assert.GreaterOrEqual(t, m1.Chassis, 0.94)
		assert.Less(t, m1.Chassis, 0.98)
		assert.GreaterOrEqual(t, m1.Body, 0.90)
		assert.Less(t, m1.Body, 0.95)
		assert.GreaterOrEqual(t, m1.Labor, 0.90)
		assert.Less(t, m1.Labor, 0.95)
	}

	assert.NotEqual(t, CostMultipliers("ord-1", 0), CostMultipliers("ord-2", 0))
}

func TestCostMultipliersSeedFallback(t *testing.T) {
	// No id: seed comes from the total instead.
	a := CostMultipliers("", 90806)
	b := CostMultipliers("", 90807)
	assert.NotEqual(t, a, b)

	// No id and no total: the floor of every band.
	z := CostMultipliers("", 0)
	assert.Equal(t, Multipliers{Chassis: 0.94, Body: 0.90, Labor: 0.90}, z)
}

func TestMargin(t *testing.T) {
	b := Breakdown{
		ChassisMSRP: 64000,
		BodyPrice:   18000,
		LaborPrice:  3200,
		Freight:     1500,
		Total:       94500,
	}
	m := Multipliers{Chassis: 0.95, Body: 0.92, Labor: 0.92}

	cost := DealerCost(b, m)
	assert.InDelta(t, 64000*0.95+18000*0.92+3200*0.92+1500, cost, 1e-9)

	margin, pct := Margin(b, m)
	assert.InDelta(t, 94500-cost, margin, 1e-9)
	assert.InDelta(t, 100*margin/94500, pct, 1e-9)

	// Freight passes through at cost: it never contributes to margin.
	withFreight := Breakdown{Freight: 1500, Total: 1500}
	mg, _ := Margin(withFreight, m)
	assert.Zero(t, mg)
}

func TestMarginZeroTotal(t *testing.T) {
	margin, pct := Margin(Breakdown{}, CostMultipliers("ord-1", 0))
	assert.Zero(t, margin)
	assert.Zero(t, pct)
}
