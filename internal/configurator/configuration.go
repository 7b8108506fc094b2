package configurator

import (
	"github.com/vantagefleet/build-orders/internal/catalog"
	"github.com/vantagefleet/build-orders/internal/orders"
	"github.com/vantagefleet/build-orders/internal/pricing"
)

// ChassisSelection is the hierarchical chassis portion of the wizard
// state: cab depends on series, drivetrain on cab, and wheelbase,
// suspension, and powertrain on drivetrain.
type ChassisSelection struct {
	Series            string `json:"series,omitempty"`
	Cab               string `json:"cab,omitempty"`
	Drivetrain        string `json:"drivetrain,omitempty"`
	Wheelbase         string `json:"wheelbase,omitempty"`
	SuspensionPackage string `json:"suspension_package,omitempty"`
	PowertrainID      string `json:"powertrain_id,omitempty"`
	GVWR              string `json:"gvwr,omitempty"`
	LeadTime          int    `json:"lead_time,omitempty"`
}

// Financing is the cached financing snapshot written back by the pricing
// layer so the review step renders consistent numbers.
type Financing struct {
	CreditTier          string  `json:"credit_tier"`
	APR                 float64 `json:"apr"`
	TermMonths          int     `json:"term_months"`
	DownPaymentFraction float64 `json:"down_payment_fraction"`
	MonthlyPayment      float64 `json:"monthly_payment"`
}

// Configuration is one wizard session's build in progress.
type Configuration struct {
	Chassis          ChassisSelection  `json:"chassis"`
	BodyType         string            `json:"body_type,omitempty"`
	BodyManufacturer string            `json:"body_manufacturer,omitempty"`
	BodySpecs        map[string]string `json:"body_specs,omitempty"`
	BodyAccessories  []string          `json:"body_accessories,omitempty"`
	Upfitter         *catalog.Upfitter `json:"upfitter,omitempty"`
	Units            int               `json:"units,omitempty"`
	State            string            `json:"state,omitempty"`

	Pricing   *pricing.Breakdown `json:"pricing,omitempty"`
	Financing *Financing         `json:"financing,omitempty"`
}

func New() *Configuration {
	return &Configuration{BodyType: catalog.BodyTypeChassisOnly, Units: 1}
}

// SetSeries replaces the series and clears every dependent field, then
// drops the body type if the new series cannot carry it.
func (c *Configuration) SetSeries(series string, chassis []catalog.Chassis) {
	if series == c.Chassis.Series {
		return
	}
	c.Chassis = ChassisSelection{Series: series}
	c.Pricing, c.Financing = nil, nil
	if !c.bodyCompatible(chassis) {
		c.resetBody()
	}
}

// SetCab clears everything downstream of the cab choice.
func (c *Configuration) SetCab(cab string) {
	if cab == c.Chassis.Cab {
		return
	}
	c.Chassis.Cab = cab
	c.Chassis.Drivetrain = ""
	c.Chassis.Wheelbase = ""
	c.Chassis.SuspensionPackage = ""
	c.Chassis.PowertrainID = ""
	c.Pricing, c.Financing = nil, nil
}

// SetDrivetrain clears wheelbase, suspension, and powertrain.
func (c *Configuration) SetDrivetrain(dt string) {
	if dt == c.Chassis.Drivetrain {
		return
	}
	c.Chassis.Drivetrain = dt
	c.Chassis.Wheelbase = ""
	c.Chassis.SuspensionPackage = ""
	c.Chassis.PowertrainID = ""
	c.Pricing, c.Financing = nil, nil
}

// SetBodyType rejects body types the selected series cannot carry by
// resetting to Chassis Only.
func (c *Configuration) SetBodyType(bodyType string, chassis []catalog.Chassis) {
	c.BodyType = bodyType
	c.BodySpecs = nil
	if !c.bodyCompatible(chassis) {
		c.resetBody()
	}
	c.Pricing, c.Financing = nil, nil
}

func (c *Configuration) resetBody() {
	c.BodyType = catalog.BodyTypeChassisOnly
	c.BodyManufacturer = ""
	c.BodySpecs = nil
}

func (c *Configuration) bodyCompatible(chassis []catalog.Chassis) bool {
	if c.BodyType == "" || c.BodyType == catalog.BodyTypeChassisOnly || c.Chassis.Series == "" {
		return true
	}
	for _, ch := range chassis {
		if ch.Series != c.Chassis.Series {
			continue
		}
		for _, b := range ch.CompatibleBodies {
			if b == c.BodyType {
				return true
			}
		}
		return false
	}
	// Unknown series: leave the body choice alone.
	return true
}

// Selection projects the configuration into the pricing engine's input.
func (c *Configuration) Selection() pricing.Selection {
	return pricing.Selection{
		Series:          c.Chassis.Series,
		Cab:             c.Chassis.Cab,
		Drivetrain:      c.Chassis.Drivetrain,
		PowertrainID:    c.Chassis.PowertrainID,
		BodyType:        c.BodyType,
		BodySpecs:       c.BodySpecs,
		BodyAccessories: c.BodyAccessories,
		HasUpfitter:     c.Upfitter != nil,
		Units:           c.Units,
		State:           c.State,
	}
}

// ApplyPricing caches the computed breakdown on the session.
func (c *Configuration) ApplyPricing(b pricing.Breakdown) {
	c.Pricing = &b
}

// ApplyFinancing caches the financing terms and the derived payment.
func (c *Configuration) ApplyFinancing(tier string, apr float64, termMonths int, downFraction float64) {
	total := 0.0
	if c.Pricing != nil {
		total = c.Pricing.Total
	}
	c.Financing = &Financing{
		CreditTier:          tier,
		APR:                 apr,
		TermMonths:          termMonths,
		DownPaymentFraction: downFraction,
		MonthlyPayment:      pricing.MonthlyPayment(total, apr, termMonths, downFraction),
	}
}

// BuildSnapshot freezes the configuration's facts for intake.
func (c *Configuration) BuildSnapshot() orders.Build {
	b := orders.Build{
		Series:            c.Chassis.Series,
		Cab:               c.Chassis.Cab,
		Drivetrain:        c.Chassis.Drivetrain,
		Wheelbase:         c.Chassis.Wheelbase,
		SuspensionPackage: c.Chassis.SuspensionPackage,
		Powertrain:        c.Chassis.PowertrainID,
		GVWR:              c.Chassis.GVWR,
		BodyType:          c.BodyType,
		BodyManufacturer:  c.BodyManufacturer,
		Units:             c.Units,
	}
	if len(c.BodySpecs) > 0 {
		b.BodySpecs = make(map[string]string, len(c.BodySpecs))
		for k, v := range c.BodySpecs {
			b.BodySpecs[k] = v
		}
	}
	if len(c.BodyAccessories) > 0 {
		b.BodyAccessories = append([]string(nil), c.BodyAccessories...)
	}
	if c.Upfitter != nil {
		b.UpfitterID = c.Upfitter.ID
		b.UpfitterName = c.Upfitter.Name
	}
	if b.Units < 1 {
		b.Units = 1
	}
	return b
}

// PricingSnapshot freezes the cached breakdown for intake; a missing
// breakdown freezes zeros rather than failing.
func (c *Configuration) PricingSnapshot() orders.PricingSnapshot {
	if c.Pricing == nil {
		return orders.PricingSnapshot{}
	}
	return orders.PricingSnapshot{
		ChassisMSRP:     c.Pricing.ChassisMSRP,
		BodyPrice:       c.Pricing.BodyPrice,
		OptionsPrice:    c.Pricing.OptionsPrice,
		LaborPrice:      c.Pricing.LaborPrice,
		Freight:         c.Pricing.Freight,
		TotalIncentives: c.Pricing.TotalIncentives,
		Taxes:           c.Pricing.Taxes,
		Total:           c.Pricing.Total,
	}
}
