package catalog

// Reference data served to the configurator and pricing engine. All of it
// is read-only once loaded.

const BodyTypeChassisOnly = "Chassis Only"

type Powertrain struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"basePrice"`
	Type      string  `json:"type"` // gas | diesel | ev
}

type Trim struct {
	Cab                string       `json:"cab"`
	Drivetrain         string       `json:"drivetrain"`
	Wheelbases         []string     `json:"wheelbases"`
	SuspensionPackages []string     `json:"suspensionPackages"`
	Powertrains        []Powertrain `json:"powertrains"`
}

type Chassis struct {
	Series           string   `json:"series"`
	Class            string   `json:"class"`
	GVWR             string   `json:"gvwr"`
	CompatibleBodies []string `json:"compatibleBodies"`
	Trims            []Trim   `json:"trims"`
}

// Body describes one body type: the selectable spec fields with their
// allowed values, the base-price table keyed by the primary dimension
// value, and the flat installation charge.
type Body struct {
	Specifications map[string][]string `json:"specifications"`
	BasePrice      map[string]float64  `json:"basePrice"`
	LaborPrice     float64             `json:"laborPrice"`
}

type Accessory struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Compatible  []string `json:"compatible"` // body types, or ["all"]
}

type Options struct {
	CommonAccessories map[string]Accessory `json:"commonAccessories"`
}

type IncentiveConditions struct {
	RequiresUpfit   bool     `json:"requiresUpfit,omitempty"`
	MinUnits        int      `json:"minUnits,omitempty"` // >0 marks a fleet-volume tier
	Description     string   `json:"description"`
	Series          []string `json:"series,omitempty"`
	BodyTypes       []string `json:"bodyTypes,omitempty"`
	States          []string `json:"states,omitempty"`
	PowertrainTypes []string `json:"powertrainTypes,omitempty"`
}

type Incentive struct {
	ID         string              `json:"id"`
	Amount     float64             `json:"amount"`
	Conditions IncentiveConditions `json:"conditions"`
}

type FinancingRate struct {
	CreditTier string  `json:"creditTier"`
	APR        float64 `json:"apr"`
}

type IncentiveSet struct {
	Incentives []Incentive `json:"incentives"`
	Financing  struct {
		Rates []FinancingRate `json:"rates"`
	} `json:"financing"`
}

type Upfitter struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Phone          string   `json:"phone"`
	State          string   `json:"state"`
	Rating         float64  `json:"rating"`
	Certifications []string `json:"certifications"`
	Specialties    []string `json:"specialties"`
	LeadTime       int      `json:"leadTime"` // days
	EvReady        bool     `json:"evReady"`
	ShipThru       []string `json:"shipThru"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
}
