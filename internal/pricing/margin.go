package pricing

// Dealer-cost analytics. The multipliers are pseudo-random but stable per
// order: the same order always reports the same margin, different orders
// vary. The seed is an explicit byte-sum hash so the output is identical
// across implementations.

type Multipliers struct {
	Chassis float64 `json:"chassis"` // 0.94 - 0.98
	Body    float64 `json:"body"`    // 0.90 - 0.95
	Labor   float64 `json:"labor"`   // 0.90 - 0.95
}

func charSum(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		sum += int(s[i])
	}
	return sum
}

// CostMultipliers derives the cost ratios from the order id, falling back
// to the pricing total when no id is present.
func CostMultipliers(orderID string, total float64) Multipliers {
	seed := 0
	if orderID != "" {
		seed = charSum(orderID) % 100
	} else if total > 0 {
		seed = int(total) % 100
	}
	return Multipliers{
		Chassis: 0.94 + float64(seed)/100*0.04,
		Body:    0.90 + float64(seed*7%100)/100*0.05,
		Labor:   0.90 + float64(seed*13%100)/100*0.05,
	}
}

// DealerCost applies the multipliers to the frozen breakdown. Options ride
// the body ratio; freight passes through at cost.
func DealerCost(b Breakdown, m Multipliers) float64 {
	return b.ChassisMSRP*m.Chassis + b.BodyPrice*m.Body + b.LaborPrice*m.Labor + b.OptionsPrice*m.Body + b.Freight
}

// Margin returns the dollar margin and its percentage of the total (0 when
// the total is 0).
func Margin(b Breakdown, m Multipliers) (margin, percent float64) {
	margin = b.Total - DealerCost(b, m)
	if b.Total == 0 {
		return margin, 0
	}
	return margin, 100 * margin / b.Total
}
