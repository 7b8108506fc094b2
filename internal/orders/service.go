package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventSink receives envelopes for the order topics. A nil sink disables
// publication; store writes never depend on it.
type EventSink interface {
	PublishIntake(env Envelope)
	PublishStatus(env Envelope)
}

// Service owns every order mutation. Stored orders change only through
// its methods, never by direct field replacement.
type Service struct {
	Store      Store
	Gaps       EtaGaps
	DealerCode string
	Producer   string
	Sink       EventSink
	Now        func() time.Time
}

func NewService(store Store, gaps EtaGaps, dealerCode, producer string) *Service {
	return &Service{
		Store:      store,
		Gaps:       gaps,
		DealerCode: dealerCode,
		Producer:   producer,
		Now:        time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type IntakePayload struct {
	Build           Build           `json:"build"`
	Pricing         PricingSnapshot `json:"pricing"`
	InventoryStatus InventoryStatus `json:"inventory_status"`
	BuyerName       string          `json:"buyer_name,omitempty"`
	Priority        string          `json:"priority,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
	CreatedBy       string          `json:"created_by"`
}

// Intake creates a new order in CONFIG_RECEIVED with null ETAs and no VIN,
// and appends the synthetic initial StatusEvent.
func (s *Service) Intake(ctx context.Context, p IntakePayload) (Order, error) {
	if p.Build.Series == "" {
		return Order{}, validationErr("chassis series is required")
	}
	if p.Build.BodyType == "" {
		p.Build.BodyType = "Chassis Only"
	}
	if p.Build.BodyType != "Chassis Only" && p.Build.BodyManufacturer == "" {
		return Order{}, validationErr("body manufacturer is required unless chassis only")
	}
	if p.Build.Units < 1 {
		p.Build.Units = 1
	}
	if p.InventoryStatus == "" {
		p.InventoryStatus = InventoryStock
	}
	if !ValidInventoryStatus(p.InventoryStatus) {
		return Order{}, invalidStatus(string(p.InventoryStatus))
	}

	seq, err := s.Store.NextSequence(ctx, SeqStock)
	if err != nil {
		return Order{}, err
	}

	now := s.now()
	o := Order{
		ID:                  uuid.NewString(),
		StockNumber:         GenerateStockNumber(p.Build.Series, s.DealerCode, seq),
		Status:              StatusConfigReceived,
		Build:               p.Build,
		Pricing:             p.Pricing,
		DealerWebsiteStatus: WebsiteDraft,
		Priority:            p.Priority,
		Tags:                p.Tags,
		CreatedAt:           now,
		UpdatedAt:           now,
		CreatedBy:           p.CreatedBy,
		UpdatedBy:           p.CreatedBy,
	}
	applySegment(&o, p.InventoryStatus, p.BuyerName)

	initial := StatusEvent{
		ID:      uuid.NewString(),
		OrderID: o.ID,
		From:    "",
		To:      StatusConfigReceived,
		At:      now,
	}
	if err := s.Store.InsertOrder(ctx, o, initial); err != nil {
		return Order{}, err
	}

	s.publishIntake(o)
	return o, nil
}

// Transition advances an order one pipeline step (or cancels it), applying
// the stage side effects: actual-completion capture, VIN assignment, audit
// stamps, and a StatusEvent.
func (s *Service) Transition(ctx context.Context, id string, to Status, actor string) (Order, error) {
	if !ValidStatus(to) {
		return Order{}, invalidStatus(string(to))
	}

	cur, err := s.Store.GetOrder(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(cur.Status, to) {
		return Order{}, invalidTransition(cur.Status, to)
	}

	// Reserve the VIN serial outside the row lock; sequence gaps on a
	// failed transition are harmless.
	vinSerial := 0
	if cur.VIN == "" && AtOrPast(to, StatusOemAllocated) {
		vinSerial, err = s.Store.NextSequence(ctx, SeqVin)
		if err != nil {
			return Order{}, err
		}
	}

	var from Status
	updated, err := s.Store.UpdateOrder(ctx, id, func(o *Order) ([]StatusEvent, error) {
		if !CanTransition(o.Status, to) {
			return nil, invalidTransition(o.Status, to)
		}
		now := s.touch(o)
		from = o.Status
		o.Status = to

		if AtOrPast(to, StatusOemInTransit) && o.ActualOemCompleted == nil {
			o.ActualOemCompleted = tp(now)
		}
		if AtOrPast(to, StatusUpfitInProgress) && o.ActualUpfitterCompleted == nil {
			o.ActualUpfitterCompleted = tp(now)
		}
		if to == StatusDelivered && o.ActualDeliveryCompleted == nil {
			o.ActualDeliveryCompleted = tp(now)
		}
		if o.VIN == "" && AtOrPast(to, StatusOemAllocated) && vinSerial > 0 {
			o.VIN = GeneratePseudoVin(o.Build, s.DealerCode, CurrentModelYear(now), vinSerial)
		}
		o.UpdatedBy = actor

		ev := StatusEvent{ID: uuid.NewString(), OrderID: o.ID, From: from, To: to, At: now}
		return []StatusEvent{ev}, nil
	})
	if err != nil {
		return Order{}, err
	}

	s.publishStatus(updated, from, to, actor)
	return updated, nil
}

// Cancel moves an order to the absorbing CANCELED state.
func (s *Service) Cancel(ctx context.Context, id, actor string) (Order, error) {
	return s.Transition(ctx, id, StatusCanceled, actor)
}

// EtaPatch carries the ETA fields a caller wants to change; nil fields
// keep their stored values.
type EtaPatch struct {
	OemEta      *time.Time `json:"oem_eta,omitempty"`
	UpfitterEta *time.Time `json:"upfitter_eta,omitempty"`
	DeliveryEta *time.Time `json:"delivery_eta,omitempty"`
}

// UpdateEtas merges the patch over the stored dates and re-applies the ETA
// policy before persisting.
func (s *Service) UpdateEtas(ctx context.Context, id string, patch EtaPatch, actor string) (Order, error) {
	updated, err := s.Store.UpdateOrder(ctx, id, func(o *Order) ([]StatusEvent, error) {
		e := Etas{Oem: o.OemEta, Upfitter: o.UpfitterEta, Delivery: o.DeliveryEta}
		if patch.OemEta != nil {
			e.Oem = patch.OemEta
		}
		if patch.UpfitterEta != nil {
			e.Upfitter = patch.UpfitterEta
		}
		if patch.DeliveryEta != nil {
			e.Delivery = patch.DeliveryEta
		}
		e = EnforceEtaPolicy(e, o.CreatedAt, o.Status, s.Gaps, s.now())
		o.OemEta, o.UpfitterEta, o.DeliveryEta = e.Oem, e.Upfitter, e.Delivery
		s.touch(o)
		o.UpdatedBy = actor
		return nil, nil
	})
	if err != nil {
		return updated, err
	}
	s.publishEvent(EventEtasUpdated, updated.ID, EtasUpdatedPayload{
		OrderID:     updated.ID,
		OemEta:      updated.OemEta,
		UpfitterEta: updated.UpfitterEta,
		DeliveryEta: updated.DeliveryEta,
	})
	return updated, nil
}

// SetInventoryStatus flips between STOCK and SOLD, keeping the buyer
// segment and buyer name consistent in the same write.
func (s *Service) SetInventoryStatus(ctx context.Context, id string, status InventoryStatus, buyerName, actor string) (Order, error) {
	if !ValidInventoryStatus(status) {
		return Order{}, invalidStatus(string(status))
	}
	updated, err := s.Store.UpdateOrder(ctx, id, func(o *Order) ([]StatusEvent, error) {
		applySegment(o, status, buyerName)
		s.touch(o)
		o.UpdatedBy = actor
		return nil, nil
	})
	if err != nil {
		return updated, err
	}
	s.publishEvent(EventInventoryChanged, updated.ID, InventoryChangedPayload{
		OrderID:         updated.ID,
		InventoryStatus: updated.InventoryStatus,
		BuyerSegment:    updated.BuyerSegment,
		BuyerName:       updated.BuyerName,
	})
	return updated, nil
}

// SetDealerWebsiteStatus moves the listing state. Publishing a listing
// forces the unit back to STOCK: a published listing is always a stocked
// unit.
func (s *Service) SetDealerWebsiteStatus(ctx context.Context, id string, status WebsiteStatus, actor string) (Order, error) {
	if !ValidWebsiteStatus(status) {
		return Order{}, invalidStatus(string(status))
	}
	updated, err := s.Store.UpdateOrder(ctx, id, func(o *Order) ([]StatusEvent, error) {
		o.DealerWebsiteStatus = status
		if status == WebsitePublished && o.InventoryStatus != InventoryStock {
			applySegment(o, InventoryStock, "")
		}
		s.touch(o)
		o.UpdatedBy = actor
		return nil, nil
	})
	if err != nil {
		return updated, err
	}
	s.publishEvent(EventListingStatusMoved, updated.ID, ListingStatusMovedPayload{
		OrderID:       updated.ID,
		WebsiteStatus: updated.DealerWebsiteStatus,
	})
	return updated, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (Order, error) {
	return s.Store.GetOrder(ctx, id)
}

func (s *Service) GetOrders(ctx context.Context, f Filter) ([]Order, error) {
	return s.Store.ListOrders(ctx, f)
}

// DeleteOrders removes the orders and their dependent events and notes.
func (s *Service) DeleteOrders(ctx context.Context, ids []string) (int, error) {
	return s.Store.DeleteOrders(ctx, ids)
}

func (s *Service) GetEvents(ctx context.Context, orderID string) ([]StatusEvent, error) {
	return s.Store.ListEvents(ctx, orderID)
}

func (s *Service) AddNote(ctx context.Context, orderID, text, user string) (Note, error) {
	if text == "" {
		return Note{}, validationErr("note text is required")
	}
	n := Note{ID: uuid.NewString(), OrderID: orderID, Text: text, User: user, At: s.now()}
	if err := s.Store.AddNote(ctx, n); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (s *Service) GetNotes(ctx context.Context, orderID string) ([]Note, error) {
	return s.Store.ListNotes(ctx, orderID)
}

// touch stamps UpdatedAt, keeping it strictly after CreatedAt even when
// the mutation lands in the creation instant.
func (s *Service) touch(o *Order) time.Time {
	now := s.now()
	if !now.After(o.CreatedAt) {
		now = o.CreatedAt.Add(time.Millisecond)
	}
	o.UpdatedAt = now
	return now
}

// applySegment is the single place the STOCK<=>Dealer / SOLD<=>Fleet
// invariant is written.
func applySegment(o *Order, status InventoryStatus, buyerName string) {
	o.InventoryStatus = status
	if status == InventoryStock {
		o.BuyerSegment = SegmentDealer
		o.BuyerName = ""
		return
	}
	o.BuyerSegment = SegmentFleet
	if buyerName != "" {
		o.BuyerName = buyerName
	} else if o.BuyerName == "" {
		o.BuyerName = defaultBuyerName(o)
	}
}

func defaultBuyerName(o *Order) string {
	tail := o.StockNumber
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return fmt.Sprintf("Fleet Account %s", tail)
}

func (s *Service) publishIntake(o Order) {
	if s.Sink == nil {
		return
	}
	payload, _ := json.Marshal(OrderIntakePayload{
		OrderID:         o.ID,
		StockNumber:     o.StockNumber,
		Series:          o.Build.Series,
		BodyType:        o.Build.BodyType,
		InventoryStatus: o.InventoryStatus,
		Total:           o.Pricing.Total,
	})
	s.Sink.PublishIntake(Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderIntake,
		EventVersion:  1,
		OccurredAt:    s.now().UTC(),
		Producer:      s.Producer,
		CorrelationID: o.ID,
		Payload:       payload,
	})
}

func (s *Service) publishStatus(o Order, from, to Status, actor string) {
	eventType := EventStatusChanged
	if to == StatusCanceled {
		eventType = EventOrderCanceled
	}
	s.publishEvent(eventType, o.ID, StatusChangedPayload{
		OrderID: o.ID,
		From:    from,
		To:      to,
		VIN:     o.VIN,
		Actor:   actor,
	})
}

// publishEvent wraps a payload in the standard envelope and routes it onto
// the status topic.
func (s *Service) publishEvent(eventType, orderID string, payload any) {
	if s.Sink == nil {
		return
	}
	raw, _ := json.Marshal(payload)
	s.Sink.PublishStatus(Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    s.now().UTC(),
		Producer:      s.Producer,
		CorrelationID: orderID,
		Payload:       raw,
	})
}
