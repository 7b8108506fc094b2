package configurator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagefleet/build-orders/internal/catalog"
	"github.com/vantagefleet/build-orders/internal/pricing"
)

func testChassis() []catalog.Chassis {
	return []catalog.Chassis{
		{Series: "F-450", CompatibleBodies: []string{"Service Body", "Flatbed", "Chassis Only"}},
		{Series: "E-450", CompatibleBodies: []string{"Dry Freight Body", "Chassis Only"}},
	}
}

func fullConfig() *Configuration {
	c := New()
	c.SetSeries("F-450", testChassis())
	c.SetCab("Crew Cab")
	c.SetDrivetrain("4x4")
	c.Chassis.Wheelbase = "179in"
	c.Chassis.SuspensionPackage = "heavy-service"
	c.Chassis.PowertrainID = "f450-diesel-67"
	c.SetBodyType("Service Body", testChassis())
	c.BodyManufacturer = "Knapheide"
	c.BodySpecs = map[string]string{"length": "9ft"}
	c.BodyAccessories = []string{"ladder-rack"}
	c.ApplyPricing(pricing.Breakdown{Total: 90806})
	return c
}

func TestNewDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, catalog.BodyTypeChassisOnly, c.BodyType)
	assert.Equal(t, 1, c.Units)
}

func TestSetSeriesClearsDependents(t *testing.T) {
	c := fullConfig()
	c.SetSeries("E-450", testChassis())

	assert.Equal(t, "E-450", c.Chassis.Series)
	assert.Empty(t, c.Chassis.Cab)
	assert.Empty(t, c.Chassis.Drivetrain)
	assert.Empty(t, c.Chassis.Wheelbase)
	assert.Empty(t, c.Chassis.SuspensionPackage)
	assert.Empty(t, c.Chassis.PowertrainID)
	assert.Nil(t, c.Pricing)
	assert.Nil(t, c.Financing)

	// E-450 cannot carry a Service Body.
	assert.Equal(t, catalog.BodyTypeChassisOnly, c.BodyType)
	assert.Empty(t, c.BodyManufacturer)
	assert.Nil(t, c.BodySpecs)
}

func TestSetSeriesNoopWhenUnchanged(t *testing.T) {
	c := fullConfig()
	c.SetSeries("F-450", testChassis())
	assert.Equal(t, "Crew Cab", c.Chassis.Cab)
	assert.NotNil(t, c.Pricing)
}

func TestSetCabClearsDownstreamOnly(t *testing.T) {
	c := fullConfig()
	c.SetCab("Regular Cab")

	assert.Equal(t, "F-450", c.Chassis.Series)
	assert.Equal(t, "Regular Cab", c.Chassis.Cab)
	assert.Empty(t, c.Chassis.Drivetrain)
	assert.Empty(t, c.Chassis.Wheelbase)
	assert.Empty(t, c.Chassis.PowertrainID)
	assert.Equal(t, "Service Body", c.BodyType, "body survives a cab change")
	assert.Nil(t, c.Pricing)
}

func TestSetDrivetrainClearsDownstream(t *testing.T) {
	c := fullConfig()
	c.SetDrivetrain("4x2")

	assert.Equal(t, "Crew Cab", c.Chassis.Cab)
	assert.Empty(t, c.Chassis.Wheelbase)
	assert.Empty(t, c.Chassis.SuspensionPackage)
	assert.Empty(t, c.Chassis.PowertrainID)
}

func TestSetBodyTypeCompatibility(t *testing.T) {
	c := New()
	c.SetSeries("F-450", testChassis())

	c.SetBodyType("Flatbed", testChassis())
	assert.Equal(t, "Flatbed", c.BodyType)

	c.SetBodyType("Dry Freight Body", testChassis())
	assert.Equal(t, catalog.BodyTypeChassisOnly, c.BodyType)

	// Unknown series leaves the body choice alone.
	c = New()
	c.SetSeries("F-750", testChassis())
	c.SetBodyType("Dry Freight Body", testChassis())
	assert.Equal(t, "Dry Freight Body", c.BodyType)
}

func TestSelectionProjection(t *testing.T) {
	c := fullConfig()
	c.Units = 6
	c.State = "OH"
	c.Upfitter = &catalog.Upfitter{ID: "upf-101", Name: "TriState Truck Equipment"}

	sel := c.Selection()
	assert.Equal(t, "F-450", sel.Series)
	assert.Equal(t, "f450-diesel-67", sel.PowertrainID)
	assert.Equal(t, "Service Body", sel.BodyType)
	assert.True(t, sel.HasUpfitter)
	assert.Equal(t, 6, sel.Units)
	assert.Equal(t, "OH", sel.State)
}

func TestApplyFinancingUsesCachedTotal(t *testing.T) {
	c := fullConfig()
	c.ApplyFinancing("Tier 1", 0, 60, 0.2)

	require.NotNil(t, c.Financing)
	assert.Equal(t, "Tier 1", c.Financing.CreditTier)
	assert.InDelta(t, 90806*0.8/60, c.Financing.MonthlyPayment, 1e-9)

	// No cached pricing: payment is zero, terms still recorded.
	c2 := New()
	c2.ApplyFinancing("Tier 2", 7.4, 72, 0.1)
	require.NotNil(t, c2.Financing)
	assert.Zero(t, c2.Financing.MonthlyPayment)
}

func TestBuildSnapshotDeepCopies(t *testing.T) {
	c := fullConfig()
	c.Upfitter = &catalog.Upfitter{ID: "upf-101", Name: "TriState Truck Equipment"}

	b := c.BuildSnapshot()
	assert.Equal(t, "F-450", b.Series)
	assert.Equal(t, "upf-101", b.UpfitterID)
	assert.Equal(t, 1, b.Units)

	c.BodySpecs["length"] = "11ft"
	c.BodyAccessories[0] = "tow-pkg"
	assert.Equal(t, "9ft", b.BodySpecs["length"])
	assert.Equal(t, "ladder-rack", b.BodyAccessories[0])
}

func TestPricingSnapshotZeroWhenMissing(t *testing.T) {
	c := New()
	assert.Zero(t, c.PricingSnapshot().Total)

	c.ApplyPricing(pricing.Breakdown{ChassisMSRP: 64000, Taxes: 7306, Total: 90806})
	snap := c.PricingSnapshot()
	assert.Equal(t, 64000.0, snap.ChassisMSRP)
	assert.Equal(t, 90806.0, snap.Total)
}
