package orders

import "time"

// Etas holds the three stage estimates. Any of them may be nil.
type Etas struct {
	Oem      *time.Time `json:"oem_eta"`
	Upfitter *time.Time `json:"upfitter_eta"`
	Delivery *time.Time `json:"delivery_eta"`
}

// EtaGaps are the default spacings between stages.
type EtaGaps struct {
	OemToUpfit      time.Duration
	UpfitToDelivery time.Duration
}

func DefaultEtaGaps() EtaGaps {
	return EtaGaps{
		OemToUpfit:      10 * 24 * time.Hour,
		UpfitToDelivery: 15 * 24 * time.Hour,
	}
}

func GapsFromDays(oemToUpfit, upfitToDeliver int) EtaGaps {
	return EtaGaps{
		OemToUpfit:      time.Duration(oemToUpfit) * 24 * time.Hour,
		UpfitToDelivery: time.Duration(upfitToDeliver) * 24 * time.Hour,
	}
}

func tp(t time.Time) *time.Time { return &t }

// ReconcileEtas fills in missing stage dates and restores oem <= upfitter
// <= delivery. The anchor is the latest-stage date present: delivery, then
// upfitter, then OEM. Missing dates are derived with the gap spacings;
// out-of-order dates are pulled backward from the later stage. Reconciling
// an already-consistent triple returns it unchanged.
func ReconcileEtas(e Etas, gaps EtaGaps) Etas {
	if e.Oem == nil && e.Upfitter == nil && e.Delivery == nil {
		return e
	}

	switch {
	case e.Delivery != nil:
		if e.Upfitter == nil {
			e.Upfitter = tp(e.Delivery.Add(-gaps.UpfitToDelivery))
		}
		if e.Oem == nil {
			e.Oem = tp(e.Upfitter.Add(-gaps.OemToUpfit))
		}
	case e.Upfitter != nil:
		e.Delivery = tp(e.Upfitter.Add(gaps.UpfitToDelivery))
		if e.Oem == nil {
			e.Oem = tp(e.Upfitter.Add(-gaps.OemToUpfit))
		}
	default:
		e.Upfitter = tp(e.Oem.Add(gaps.OemToUpfit))
		e.Delivery = tp(e.Upfitter.Add(gaps.UpfitToDelivery))
	}

	// Pull violating earlier stages backward from the later stage.
	if e.Upfitter.After(*e.Delivery) {
		e.Upfitter = tp(e.Delivery.Add(-gaps.UpfitToDelivery))
	}
	if e.Oem.After(*e.Upfitter) {
		e.Oem = tp(e.Upfitter.Add(-gaps.OemToUpfit))
	}
	return e
}

// EnforceEtaPolicy applies the business floors to the OEM date and then
// re-sequences. The createdAt floor runs before the past-due check; the
// sequencer always runs last. When the OEM date had to move forward the
// downstream dates are pushed forward from it instead of being allowed to
// pull it back.
func EnforceEtaPolicy(e Etas, createdAt time.Time, status Status, gaps EtaGaps, now time.Time) Etas {
	corrected := false

	if e.Oem != nil && e.Oem.Before(createdAt) {
		e.Oem = tp(createdAt.Add(24 * time.Hour))
		corrected = true
	}

	// An order that has not shipped from the OEM cannot have a past OEM ETA.
	si := StageIndex(status)
	preTransit := si >= 0 && si <= StageIndex(StatusOemInTransit)
	if preTransit && e.Oem != nil && e.Oem.Before(now) {
		e.Oem = tp(now.Add(48 * time.Hour))
		corrected = true
	}

	if !corrected {
		return ReconcileEtas(e, gaps)
	}

	// Re-anchor forward on the corrected OEM date.
	if e.Upfitter == nil || e.Upfitter.Before(*e.Oem) {
		e.Upfitter = tp(e.Oem.Add(gaps.OemToUpfit))
	}
	if e.Delivery == nil || e.Delivery.Before(*e.Upfitter) {
		e.Delivery = tp(e.Upfitter.Add(gaps.UpfitToDelivery))
	}
	return e
}
