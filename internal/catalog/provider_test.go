package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestProvider(t *testing.T) *FileProvider {
	t.Helper()
	p, err := Load("testdata")
	require.NoError(t, err)
	return p
}

func TestLoadCatalog(t *testing.T) {
	p := loadTestProvider(t)

	assert.Len(t, p.GetChassis(), 2)
	assert.ElementsMatch(t, []string{"Service Body", "Flatbed", "Chassis Only"}, p.GetBodyTypes())

	b, ok := p.GetBody("Service Body")
	require.True(t, ok)
	assert.Equal(t, 18000.0, b.BasePrice["9ft"])
	assert.Equal(t, 3200.0, b.LaborPrice)

	_, ok = p.GetBody("Tow Body")
	assert.False(t, ok)

	opts := p.GetOptions()
	assert.Equal(t, 850.0, opts.CommonAccessories["ladder-rack"].Price)
}

func TestLoadRejectsMissingDir(t *testing.T) {
	_, err := Load("testdata/nope")
	assert.Error(t, err)
}

func incentiveIDs(set IncentiveSet) []string {
	ids := make([]string, 0, len(set.Incentives))
	for _, in := range set.Incentives {
		ids = append(ids, in.ID)
	}
	return ids
}

func TestGetIncentivesFiltering(t *testing.T) {
	p := loadTestProvider(t)

	// No facts: only records without list conditions survive.
	set := p.GetIncentives(IncentiveFilter{})
	assert.ElementsMatch(t, []string{"season-cash", "fleet-5"}, incentiveIDs(set))

	set = p.GetIncentives(IncentiveFilter{PowertrainType: "diesel"})
	assert.Contains(t, incentiveIDs(set), "diesel-bonus")

	set = p.GetIncentives(IncentiveFilter{Series: "F-450", State: "oh", BodyType: "Service Body", PowertrainType: "gas"})
	assert.ElementsMatch(t, []string{"season-cash", "f450-oh-cash", "upfit-assist", "fleet-5"}, incentiveIDs(set))

	set = p.GetIncentives(IncentiveFilter{Series: "F-450", State: "TX"})
	assert.NotContains(t, incentiveIDs(set), "f450-oh-cash")

	// Financing rates ride along unfiltered.
	assert.Len(t, set.Financing.Rates, 3)
}

func TestGetUpfittersFiltering(t *testing.T) {
	p := loadTestProvider(t)

	all := p.GetUpfitters(UpfitterFilter{})
	assert.Len(t, all, 3)

	oh := p.GetUpfitters(UpfitterFilter{State: "oh"})
	require.Len(t, oh, 1)
	assert.Equal(t, "upf-101", oh[0].ID)

	service := p.GetUpfitters(UpfitterFilter{Specialty: "Service Body"})
	assert.Len(t, service, 2)

	ev := p.GetUpfitters(UpfitterFilter{Specialty: "Service Body", EvReady: true})
	require.Len(t, ev, 1)
	assert.Equal(t, "upf-114", ev[0].ID)
}
