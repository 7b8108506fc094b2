package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vantagefleet/build-orders/internal/catalog"
)

func testIncentives() []catalog.Incentive {
	return []catalog.Incentive{
		{ID: "upfit-assist", Amount: 1000, Conditions: catalog.IncentiveConditions{RequiresUpfit: true}},
		{ID: "season-cash", Amount: 750},
		{ID: "fleet-5", Amount: 1500, Conditions: catalog.IncentiveConditions{MinUnits: 5}},
		{ID: "fleet-10", Amount: 3000, Conditions: catalog.IncentiveConditions{MinUnits: 10}},
		{ID: "fleet-25", Amount: 6500, Conditions: catalog.IncentiveConditions{MinUnits: 25}},
	}
}

func TestAutoApplicableUpfitGate(t *testing.T) {
	ids := AutoApplicable(Selection{Units: 1}, testIncentives())
	assert.Equal(t, []string{"season-cash"}, ids)

	ids = AutoApplicable(Selection{Units: 1, HasUpfitter: true}, testIncentives())
	assert.Equal(t, []string{"upfit-assist", "season-cash"}, ids)
}

func TestAutoApplicableVolumeTiersAreExclusive(t *testing.T) {
	// 30 units satisfies all three tiers; only the highest applies.
	ids := AutoApplicable(Selection{Units: 30}, testIncentives())
	assert.Equal(t, []string{"season-cash", "fleet-25"}, ids)

	ids = AutoApplicable(Selection{Units: 7}, testIncentives())
	assert.Equal(t, []string{"season-cash", "fleet-5"}, ids)

	ids = AutoApplicable(Selection{Units: 4}, testIncentives())
	assert.Equal(t, []string{"season-cash"}, ids)
}

func TestTotalIncentives(t *testing.T) {
	total := TotalIncentives([]string{"season-cash", "fleet-10"}, testIncentives())
	assert.Equal(t, 3750.0, total)

	assert.Zero(t, TotalIncentives(nil, testIncentives()))
	assert.Zero(t, TotalIncentives([]string{"unknown"}, testIncentives()))
}
