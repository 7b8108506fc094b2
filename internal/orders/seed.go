package orders

import (
	"context"
	"fmt"
	"time"
)

// Seeder populates a demo dataset and repairs collection-wide invariants.
// It is an administrative fixture operation: nothing in the request path
// invokes it. Reconcile is safe to run repeatedly and never drops orders
// that satisfy the invariants.
type Seeder struct {
	Svc           *Service
	Target        int
	MinStockRatio float64
}

var seedSeries = []string{"F-350", "F-450", "F-550", "F-600", "F-650", "E-450"}

var seedBodies = []struct {
	bodyType     string
	manufacturer string
	specs        map[string]string
	price        float64
	labor        float64
}{
	{"Service Body", "Knapheide", map[string]string{"length": "9ft"}, 18000, 3200},
	{"Flatbed", "CM Truck Beds", map[string]string{"bedLength": "11ft"}, 9500, 1800},
	{"Dump Body", "Rugby", map[string]string{"length": "10ft"}, 21500, 4100},
	{"Dry Freight Body", "Morgan", map[string]string{"boxLength": "14ft"}, 16800, 2900},
	{"Chassis Only", "", nil, 0, 0},
}

var seedBuyers = []string{
	"Summit Plumbing Co", "Ridgeline Electric", "Metro Parks District",
	"Cascade Tree Service", "Harbor Freight Logistics", "Bluestone Paving",
}

var seedUpfitters = []struct{ id, name string }{
	{"upf-101", "TriState Truck Equipment"},
	{"upf-114", "Allied Body Works"},
	{"upf-127", "Pacific Upfit Center"},
}

// seedHash is the deterministic string hash used across the demo dataset:
// sum of byte values mod 100.
func seedHash(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		sum += int(s[i])
	}
	return sum % 100
}

// Run seeds up to Target orders when the store is empty, then reconciles.
func (sd *Seeder) Run(ctx context.Context) (created, repaired int, err error) {
	existing, err := sd.Svc.Store.ListOrders(ctx, Filter{})
	if err != nil {
		return 0, 0, err
	}
	if len(existing) == 0 {
		created, err = sd.populate(ctx)
		if err != nil {
			return created, 0, err
		}
	}
	repaired, err = sd.Reconcile(ctx)
	return created, repaired, err
}

func (sd *Seeder) populate(ctx context.Context) (int, error) {
	base := time.Now().Add(-time.Duration(sd.Target) * 72 * time.Hour)

	for i := 0; i < sd.Target; i++ {
		clock := base.Add(time.Duration(i) * 72 * time.Hour)
		svc := *sd.Svc
		svc.Now = func() time.Time { return clock }
		svc.Sink = nil // fixture writes are not broadcast

		body := seedBodies[i%len(seedBodies)]
		series := seedSeries[i%len(seedSeries)]
		upf := seedUpfitters[i%len(seedUpfitters)]

		build := Build{
			Series:           series,
			Cab:              []string{"Regular Cab", "SuperCab", "Crew Cab"}[i%3],
			Drivetrain:       []string{"4x2", "4x4"}[i%2],
			Powertrain:       []string{"7.3L V8 Gas", "6.7L V8 Diesel"}[i%2],
			BodyType:         body.bodyType,
			BodyManufacturer: body.manufacturer,
			BodySpecs:        body.specs,
			Units:            1 + i%3,
		}
		if body.bodyType != "Chassis Only" {
			build.UpfitterID = upf.id
			build.UpfitterName = upf.name
		}

		chassisMsrp := 52000 + float64(seedHash(series))*180
		subtotal := chassisMsrp + body.price + body.labor + 1500
		taxes := float64(int(subtotal*0.0875 + 0.5))
		pricing := PricingSnapshot{
			ChassisMSRP: chassisMsrp,
			BodyPrice:   body.price,
			LaborPrice:  body.labor,
			Freight:     1500,
			Taxes:       taxes,
			Total:       subtotal + taxes,
		}

		inv := InventoryStock
		buyer := ""
		if i%3 == 2 {
			inv = InventorySold
			buyer = seedBuyers[i%len(seedBuyers)]
		}

		o, err := svc.Intake(ctx, IntakePayload{
			Build:           build,
			Pricing:         pricing,
			InventoryStatus: inv,
			BuyerName:       buyer,
			Priority:        []string{"normal", "normal", "high"}[i%3],
			CreatedBy:       "seed",
		})
		if err != nil {
			return i, err
		}

		// Walk each order part-way down the pipeline; every tenth one is
		// canceled mid-stream.
		steps := seedHash(o.ID) % len(Pipeline)
		for s := 1; s <= steps; s++ {
			clock = clock.Add(36 * time.Hour)
			if _, err := svc.Transition(ctx, o.ID, Pipeline[s], "seed"); err != nil {
				return i, err
			}
		}
		if i%10 == 9 {
			clock = clock.Add(12 * time.Hour)
			if _, err := svc.Cancel(ctx, o.ID, "seed"); err != nil {
				return i, err
			}
		}

		oem := clock.Add(time.Duration(20+seedHash(o.ID)%30) * 24 * time.Hour)
		if _, err := svc.UpdateEtas(ctx, o.ID, EtaPatch{OemEta: &oem}, "seed"); err != nil {
			return i, err
		}
	}
	return sd.Target, nil
}

// Reconcile restores invariants that may have drifted: buyer-segment
// consistency, stock-number presence and uniqueness, VIN and
// actual-completion backfill, ETA sequencing, audit ordering, and the
// minimum stock ratio. Once the set is consistent the pass is a no-op.
func (sd *Seeder) Reconcile(ctx context.Context) (int, error) {
	all, err := sd.Svc.Store.ListOrders(ctx, Filter{})
	if err != nil {
		return 0, err
	}

	changed := 0
	seenStock := make(map[string]bool, len(all))
	now := sd.Svc.now()

	for _, cur := range all {
		fix, dirty, err := sd.repairPlan(ctx, cur, seenStock, now)
		if err != nil {
			return changed, err
		}
		seenStock[fix.StockNumber] = true
		if !dirty {
			continue
		}
		_, err = sd.Svc.Store.UpdateOrder(ctx, cur.ID, func(o *Order) ([]StatusEvent, error) {
			*o = fix
			return nil, nil
		})
		if err != nil {
			return changed, err
		}
		changed++
	}

	n, err := sd.enforceStockRatio(ctx)
	return changed + n, err
}

// repairPlan computes the fixed-up order without mutating the store, so a
// clean record produces no write at all.
func (sd *Seeder) repairPlan(ctx context.Context, cur Order, seenStock map[string]bool, now time.Time) (Order, bool, error) {
	o := cur
	dirty := false

	if o.StockNumber == "" || seenStock[o.StockNumber] {
		seq, err := sd.Svc.Store.NextSequence(ctx, SeqStock)
		if err != nil {
			return o, false, err
		}
		o.StockNumber = GenerateStockNumber(o.Build.Series, sd.Svc.DealerCode, seq)
		dirty = true
	}

	switch o.InventoryStatus {
	case InventoryStock:
		if o.BuyerSegment != SegmentDealer || o.BuyerName != "" {
			o.BuyerSegment = SegmentDealer
			o.BuyerName = ""
			dirty = true
		}
	case InventorySold:
		if o.BuyerSegment != SegmentFleet || o.BuyerName == "" {
			o.BuyerSegment = SegmentFleet
			if o.BuyerName == "" {
				o.BuyerName = defaultBuyerName(&o)
			}
			dirty = true
		}
	default:
		applySegment(&o, InventoryStock, "")
		dirty = true
	}

	if AtOrPast(o.Status, StatusOemAllocated) && o.VIN == "" {
		serial, err := sd.Svc.Store.NextSequence(ctx, SeqVin)
		if err != nil {
			return o, false, err
		}
		o.VIN = GeneratePseudoVin(o.Build, sd.Svc.DealerCode, CurrentModelYear(o.UpdatedAt), serial)
		dirty = true
	}

	backfill := o.UpdatedAt
	if AtOrPast(o.Status, StatusOemInTransit) && o.ActualOemCompleted == nil {
		o.ActualOemCompleted = tp(backfill)
		dirty = true
	}
	if AtOrPast(o.Status, StatusUpfitInProgress) && o.ActualUpfitterCompleted == nil {
		o.ActualUpfitterCompleted = tp(backfill)
		dirty = true
	}
	if o.Status == StatusDelivered && o.ActualDeliveryCompleted == nil {
		o.ActualDeliveryCompleted = tp(backfill)
		dirty = true
	}

	e := EnforceEtaPolicy(Etas{Oem: o.OemEta, Upfitter: o.UpfitterEta, Delivery: o.DeliveryEta}, o.CreatedAt, o.Status, sd.Svc.Gaps, now)
	if !timeEq(e.Oem, o.OemEta) || !timeEq(e.Upfitter, o.UpfitterEta) || !timeEq(e.Delivery, o.DeliveryEta) {
		o.OemEta, o.UpfitterEta, o.DeliveryEta = e.Oem, e.Upfitter, e.Delivery
		dirty = true
	}

	if !o.UpdatedAt.After(o.CreatedAt) {
		o.UpdatedAt = o.CreatedAt.Add(time.Millisecond)
		dirty = true
	}
	return o, dirty, nil
}

// enforceStockRatio flips the most recent SOLD units back to STOCK until
// the floor holds. Orders are never dropped.
func (sd *Seeder) enforceStockRatio(ctx context.Context) (int, error) {
	all, err := sd.Svc.Store.ListOrders(ctx, Filter{})
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, nil
	}

	stock := 0
	for _, o := range all {
		if o.InventoryStatus == InventoryStock {
			stock++
		}
	}

	changed := 0
	// Newest first so long-standing fleet attributions survive.
	for i := len(all) - 1; i >= 0; i-- {
		if float64(stock)/float64(len(all)) >= sd.MinStockRatio {
			break
		}
		if all[i].InventoryStatus != InventorySold {
			continue
		}
		if _, err := sd.Svc.SetInventoryStatus(ctx, all[i].ID, InventoryStock, "", "seed"); err != nil {
			return changed, err
		}
		stock++
		changed++
	}
	return changed, nil
}

func timeEq(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// DescribeDataset is a convenience for the seed tool's log line.
func DescribeDataset(all []Order) string {
	stock := 0
	for _, o := range all {
		if o.InventoryStatus == InventoryStock {
			stock++
		}
	}
	return fmt.Sprintf("%d orders, %d stock", len(all), stock)
}
