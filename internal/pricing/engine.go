package pricing

import (
	"math"
	"sort"

	"github.com/vantagefleet/build-orders/internal/catalog"
)

// Selection is the slice of wizard state the engine prices. Missing
// catalog entries degrade to zero contribution, never an error: a quote
// must always render a number.
type Selection struct {
	Series       string
	Cab          string
	Drivetrain   string
	PowertrainID string

	BodyType        string
	BodySpecs       map[string]string
	BodyAccessories []string

	HasUpfitter bool
	Units       int
	State       string
}

// Base is the engine-level price before freight, incentives, and taxes.
type Base struct {
	ChassisMSRP  float64 `json:"chassis_msrp"`
	BodyPrice    float64 `json:"body_price"`
	OptionsPrice float64 `json:"options_price"`
	LaborPrice   float64 `json:"labor_price"`
	Subtotal     float64 `json:"subtotal"`
	Total        float64 `json:"total"`
}

// dimensionPriority is the fixed order in which body-spec fields are
// checked for the pricing dimension.
var dimensionPriority = []string{
	"length", "bedLength", "boxLength", "bodyLength",
	"deckLength", "workingHeight", "moduleLength", "type",
}

// Compute prices a selection against the catalogs.
func Compute(sel Selection, chassis []catalog.Chassis, bodies map[string]catalog.Body, options catalog.Options) Base {
	b := Base{
		ChassisMSRP:  chassisMSRP(sel, chassis),
		BodyPrice:    bodyPrice(sel, bodies),
		OptionsPrice: optionsPrice(sel.BodyAccessories, options),
		LaborPrice:   laborPrice(sel, bodies),
	}
	b.Subtotal = b.ChassisMSRP + b.BodyPrice + b.OptionsPrice + b.LaborPrice
	b.Total = b.Subtotal
	return b
}

func chassisMSRP(sel Selection, chassis []catalog.Chassis) float64 {
	if sel.Series == "" {
		return 0
	}
	var entry *catalog.Chassis
	for i := range chassis {
		if chassis[i].Series == sel.Series {
			entry = &chassis[i]
			break
		}
	}
	if entry == nil || len(entry.Trims) == 0 {
		return 0
	}

	if sel.PowertrainID != "" {
		// Prefer the trim matching the chosen cab and drivetrain.
		for _, t := range orderedTrims(entry.Trims, sel) {
			for _, pt := range t.Powertrains {
				if pt.ID == sel.PowertrainID {
					return pt.BasePrice
				}
			}
		}
	}
	if len(entry.Trims[0].Powertrains) == 0 {
		return 0
	}
	return entry.Trims[0].Powertrains[0].BasePrice
}

func orderedTrims(trims []catalog.Trim, sel Selection) []catalog.Trim {
	out := make([]catalog.Trim, 0, len(trims))
	for _, t := range trims {
		if t.Cab == sel.Cab && t.Drivetrain == sel.Drivetrain {
			out = append(out, t)
		}
	}
	for _, t := range trims {
		if t.Cab != sel.Cab || t.Drivetrain != sel.Drivetrain {
			out = append(out, t)
		}
	}
	return out
}

func bodyPrice(sel Selection, bodies map[string]catalog.Body) float64 {
	if sel.BodyType == "" || sel.BodyType == catalog.BodyTypeChassisOnly {
		return 0
	}
	body, ok := bodies[sel.BodyType]
	if !ok || len(body.BasePrice) == 0 {
		return 0
	}

	for _, dim := range dimensionPriority {
		v, ok := sel.BodySpecs[dim]
		if !ok {
			continue
		}
		if price, ok := body.BasePrice[v]; ok {
			return price
		}
		break
	}

	// No exact match: fall back to the first entry of the table. Keys are
	// sorted so the fallback is stable.
	keys := make([]string, 0, len(body.BasePrice))
	for k := range body.BasePrice {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return body.BasePrice[keys[0]]
}

func optionsPrice(accessories []string, options catalog.Options) float64 {
	total := 0.0
	for _, id := range accessories {
		if acc, ok := options.CommonAccessories[id]; ok {
			total += acc.Price
		}
	}
	return total
}

func laborPrice(sel Selection, bodies map[string]catalog.Body) float64 {
	if sel.BodyType == "" || sel.BodyType == catalog.BodyTypeChassisOnly {
		return 0
	}
	body, ok := bodies[sel.BodyType]
	if !ok {
		return 0
	}
	return body.LaborPrice
}

// MonthlyPayment is the standard amortizing-loan payment on the financed
// share of the total. Zero APR degrades to simple division.
func MonthlyPayment(total, aprPercent float64, termMonths int, downPaymentFraction float64) float64 {
	if termMonths <= 0 {
		return 0
	}
	principal := total * (1 - downPaymentFraction)
	if principal <= 0 {
		return 0
	}
	n := float64(termMonths)
	monthlyRate := aprPercent / 100 / 12
	if monthlyRate == 0 {
		return principal / n
	}
	pow := math.Pow(1+monthlyRate, n)
	return principal * monthlyRate * pow / (pow - 1)
}
