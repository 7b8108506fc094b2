package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderIntake        = "OrderIntake"
	EventStatusChanged      = "StatusChanged"
	EventOrderCanceled      = "OrderCanceled"
	EventEtasUpdated        = "EtasUpdated"
	EventInventoryChanged   = "InventoryChanged"
	EventListingStatusMoved = "ListingStatusMoved"
)

// Envelope is the wire wrapper for every published event.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderIntakePayload struct {
	OrderID         string          `json:"order_id"`
	StockNumber     string          `json:"stock_number"`
	Series          string          `json:"series"`
	BodyType        string          `json:"body_type"`
	InventoryStatus InventoryStatus `json:"inventory_status"`
	Total           float64         `json:"total"`
}

type StatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
	VIN     string `json:"vin,omitempty"`
	Actor   string `json:"actor,omitempty"`
}

type EtasUpdatedPayload struct {
	OrderID     string     `json:"order_id"`
	OemEta      *time.Time `json:"oem_eta,omitempty"`
	UpfitterEta *time.Time `json:"upfitter_eta,omitempty"`
	DeliveryEta *time.Time `json:"delivery_eta,omitempty"`
}

type InventoryChangedPayload struct {
	OrderID         string          `json:"order_id"`
	InventoryStatus InventoryStatus `json:"inventory_status"`
	BuyerSegment    BuyerSegment    `json:"buyer_segment"`
	BuyerName       string          `json:"buyer_name,omitempty"`
}

type ListingStatusMovedPayload struct {
	OrderID       string        `json:"order_id"`
	WebsiteStatus WebsiteStatus `json:"website_status"`
}
