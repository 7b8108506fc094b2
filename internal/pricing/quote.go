package pricing

import (
	"math"
	"strings"

	"github.com/vantagefleet/build-orders/internal/catalog"
)

// Config holds the deployment pricing knobs. The defaults are
// illustrative, not invariants.
type Config struct {
	FreightFee float64
	TaxRate    float64
}

func DefaultConfig() Config {
	return Config{FreightFee: 1500, TaxRate: 0.0875}
}

// Breakdown is the full quote as shown on the review step and frozen into
// the order at intake.
type Breakdown struct {
	ChassisMSRP     float64  `json:"chassis_msrp"`
	BodyPrice       float64  `json:"body_price"`
	OptionsPrice    float64  `json:"options_price"`
	LaborPrice      float64  `json:"labor_price"`
	Freight         float64  `json:"freight"`
	Subtotal        float64  `json:"subtotal"`
	IncentiveIDs    []string `json:"incentive_ids,omitempty"`
	TotalIncentives float64  `json:"total_incentives"`
	TaxableAmount   float64  `json:"taxable_amount"`
	Taxes           float64  `json:"taxes"`
	Total           float64  `json:"total"`

	MonthlyPayment float64 `json:"monthly_payment,omitempty"`
}

// Quote assembles the full breakdown: base engine prices plus freight,
// auto-applicable incentives, and taxes on the post-incentive amount.
func Quote(sel Selection, chassis []catalog.Chassis, bodies map[string]catalog.Body, options catalog.Options, incentives []catalog.Incentive, cfg Config) Breakdown {
	base := Compute(sel, chassis, bodies, options)
	ids := AutoApplicable(sel, incentives)

	b := Breakdown{
		ChassisMSRP:     base.ChassisMSRP,
		BodyPrice:       base.BodyPrice,
		OptionsPrice:    base.OptionsPrice,
		LaborPrice:      base.LaborPrice,
		Freight:         cfg.FreightFee,
		IncentiveIDs:    ids,
		TotalIncentives: TotalIncentives(ids, incentives),
	}
	b.Subtotal = base.Subtotal + cfg.FreightFee
	b.TaxableAmount = b.Subtotal - b.TotalIncentives
	b.Taxes = math.Round(b.TaxableAmount * cfg.TaxRate)
	b.Total = b.TaxableAmount + b.Taxes
	return b
}

// RateForTier looks up the APR for a credit tier; the first table entry is
// the fallback for unknown tiers.
func RateForTier(rates []catalog.FinancingRate, tier string) (float64, bool) {
	for _, r := range rates {
		if strings.EqualFold(r.CreditTier, tier) {
			return r.APR, true
		}
	}
	if len(rates) > 0 {
		return rates[0].APR, false
	}
	return 0, false
}
