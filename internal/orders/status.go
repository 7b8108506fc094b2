package orders

type Status string

const (
	StatusConfigReceived   Status = "CONFIG_RECEIVED"
	StatusOemAllocated     Status = "OEM_ALLOCATED"
	StatusOemProduction    Status = "OEM_PRODUCTION"
	StatusOemInTransit     Status = "OEM_IN_TRANSIT"
	StatusAtUpfitter       Status = "AT_UPFITTER"
	StatusUpfitInProgress  Status = "UPFIT_IN_PROGRESS"
	StatusReadyForDelivery Status = "READY_FOR_DELIVERY"
	StatusDelivered        Status = "DELIVERED"
	StatusCanceled         Status = "CANCELED"
)

// Pipeline is the production sequence. CANCELED sits outside it and is
// reachable from any non-canceled status.
var Pipeline = []Status{
	StatusConfigReceived,
	StatusOemAllocated,
	StatusOemProduction,
	StatusOemInTransit,
	StatusAtUpfitter,
	StatusUpfitInProgress,
	StatusReadyForDelivery,
	StatusDelivered,
}

var stageIndex = func() map[Status]int {
	m := make(map[Status]int, len(Pipeline))
	for i, s := range Pipeline {
		m[s] = i
	}
	return m
}()

func ValidStatus(s Status) bool {
	if s == StatusCanceled {
		return true
	}
	_, ok := stageIndex[s]
	return ok
}

// StageIndex returns the position of s in the pipeline, or -1 for CANCELED
// and unknown statuses.
func StageIndex(s Status) int {
	if i, ok := stageIndex[s]; ok {
		return i
	}
	return -1
}

// AtOrPast reports whether s has reached stage. CANCELED never counts as
// having reached a production stage.
func AtOrPast(s, stage Status) bool {
	si, ok := stageIndex[s]
	if !ok {
		return false
	}
	ti, ok := stageIndex[stage]
	if !ok {
		return false
	}
	return si >= ti
}

// CanTransition allows exactly one step forward in the pipeline, or a jump
// to CANCELED from anywhere except CANCELED itself.
func CanTransition(from, to Status) bool {
	if to == StatusCanceled {
		return from != StatusCanceled && ValidStatus(from)
	}
	fi, ok := stageIndex[from]
	if !ok {
		return false
	}
	ti, ok := stageIndex[to]
	if !ok {
		return false
	}
	return ti == fi+1
}
