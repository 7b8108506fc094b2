package orders

import "time"

type InventoryStatus string

const (
	InventoryStock InventoryStatus = "STOCK"
	InventorySold  InventoryStatus = "SOLD"
)

type BuyerSegment string

const (
	SegmentDealer BuyerSegment = "Dealer"
	SegmentFleet  BuyerSegment = "Fleet"
)

type WebsiteStatus string

const (
	WebsiteDraft       WebsiteStatus = "DRAFT"
	WebsitePublished   WebsiteStatus = "PUBLISHED"
	WebsiteUnpublished WebsiteStatus = "UNPUBLISHED"
)

func ValidInventoryStatus(s InventoryStatus) bool {
	return s == InventoryStock || s == InventorySold
}

func ValidWebsiteStatus(s WebsiteStatus) bool {
	return s == WebsiteDraft || s == WebsitePublished || s == WebsiteUnpublished
}

// Build is the frozen chassis/body/upfitter snapshot captured at intake.
// It never changes after the order is created.
type Build struct {
	Series            string `json:"series"`
	Cab               string `json:"cab,omitempty"`
	Drivetrain        string `json:"drivetrain,omitempty"`
	Wheelbase         string `json:"wheelbase,omitempty"`
	SuspensionPackage string `json:"suspension_package,omitempty"`
	Powertrain        string `json:"powertrain,omitempty"`
	GVWR              string `json:"gvwr,omitempty"`

	BodyType         string            `json:"body_type"`
	BodyManufacturer string            `json:"body_manufacturer,omitempty"`
	BodySpecs        map[string]string `json:"body_specs,omitempty"`
	BodyAccessories  []string          `json:"body_accessories,omitempty"`

	UpfitterID   string `json:"upfitter_id,omitempty"`
	UpfitterName string `json:"upfitter_name,omitempty"`

	Units int `json:"units"`
}

// PricingSnapshot is the frozen pricing breakdown captured at intake.
type PricingSnapshot struct {
	ChassisMSRP     float64 `json:"chassis_msrp"`
	BodyPrice       float64 `json:"body_price"`
	OptionsPrice    float64 `json:"options_price"`
	LaborPrice      float64 `json:"labor_price"`
	Freight         float64 `json:"freight"`
	TotalIncentives float64 `json:"total_incentives"`
	Taxes           float64 `json:"taxes"`
	Total           float64 `json:"total"`
}

type Order struct {
	ID          string `json:"id"`
	StockNumber string `json:"stock_number"`
	VIN         string `json:"vin,omitempty"`

	Status          Status          `json:"status"`
	InventoryStatus InventoryStatus `json:"inventory_status"`
	BuyerSegment    BuyerSegment    `json:"buyer_segment"`
	BuyerName       string          `json:"buyer_name,omitempty"`

	Build   Build           `json:"build"`
	Pricing PricingSnapshot `json:"pricing"`

	OemEta      *time.Time `json:"oem_eta,omitempty"`
	UpfitterEta *time.Time `json:"upfitter_eta,omitempty"`
	DeliveryEta *time.Time `json:"delivery_eta,omitempty"`

	ActualOemCompleted      *time.Time `json:"actual_oem_completed,omitempty"`
	ActualUpfitterCompleted *time.Time `json:"actual_upfitter_completed,omitempty"`
	ActualDeliveryCompleted *time.Time `json:"actual_delivery_completed,omitempty"`

	DealerWebsiteStatus WebsiteStatus `json:"dealer_website_status"`

	Priority string   `json:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

// StatusEvent is one append-only transition record. The intake event uses
// an empty From.
type StatusEvent struct {
	ID      string    `json:"id"`
	OrderID string    `json:"order_id"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
	At      time.Time `json:"at"`
}

type Note struct {
	ID      string    `json:"id"`
	OrderID string    `json:"order_id"`
	Text    string    `json:"text"`
	User    string    `json:"user"`
	At      time.Time `json:"at"`
}

// Filter narrows ListOrders. Zero values match everything.
type Filter struct {
	Status          Status
	InventoryStatus InventoryStatus
	WebsiteStatus   WebsiteStatus
	BuyerSegment    BuyerSegment
}

func (f Filter) Match(o Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.InventoryStatus != "" && o.InventoryStatus != f.InventoryStatus {
		return false
	}
	if f.WebsiteStatus != "" && o.DealerWebsiteStatus != f.WebsiteStatus {
		return false
	}
	if f.BuyerSegment != "" && o.BuyerSegment != f.BuyerSegment {
		return false
	}
	return true
}
