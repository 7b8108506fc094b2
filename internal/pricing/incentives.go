package pricing

import "github.com/vantagefleet/build-orders/internal/catalog"

// AutoApplicable returns the incentive ids that apply without operator
// action. Upfit-contingent rebates need a selected upfitter; records with
// a minimum unit count are fleet-volume tiers and are mutually exclusive:
// only the single highest tier the unit count satisfies is returned.
func AutoApplicable(sel Selection, incentives []catalog.Incentive) []string {
	var ids []string
	var bestTier *catalog.Incentive

	for i := range incentives {
		in := incentives[i]
		if in.Conditions.RequiresUpfit && !sel.HasUpfitter {
			continue
		}
		if in.Conditions.MinUnits > 0 {
			if sel.Units < in.Conditions.MinUnits {
				continue
			}
			if bestTier == nil || in.Conditions.MinUnits > bestTier.Conditions.MinUnits {
				bestTier = &incentives[i]
			}
			continue
		}
		ids = append(ids, in.ID)
	}
	if bestTier != nil {
		ids = append(ids, bestTier.ID)
	}
	return ids
}

// TotalIncentives sums the amounts of the selected ids.
func TotalIncentives(ids []string, incentives []catalog.Incentive) float64 {
	byID := make(map[string]float64, len(incentives))
	for _, in := range incentives {
		byID[in.ID] = in.Amount
	}
	total := 0.0
	for _, id := range ids {
		total += byID[id]
	}
	return total
}
