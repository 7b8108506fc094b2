package orders

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemStore is the in-memory Store used by tests and the demo seed. A
// single mutex serializes every operation, which also serializes the
// collection-wide reconcile pass against per-order mutations.
type MemStore struct {
	mu     sync.Mutex
	orders map[string]Order
	events map[string][]StatusEvent
	notes  map[string][]Note
	seqs   map[string]int
}

func NewMemStore() *MemStore {
	return &MemStore{
		orders: make(map[string]Order),
		events: make(map[string][]StatusEvent),
		notes:  make(map[string][]Note),
		seqs:   make(map[string]int),
	}
}

func (s *MemStore) GetOrder(ctx context.Context, id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return clone(o), nil
}

func (s *MemStore) ListOrders(ctx context.Context, f Filter) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		if f.Match(o) {
			out = append(out, clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemStore) InsertOrder(ctx context.Context, o Order, initial StatusEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = clone(o)
	s.events[o.ID] = append(s.events[o.ID], initial)
	return nil
}

func (s *MemStore) UpdateOrder(ctx context.Context, id string, mutate func(o *Order) ([]StatusEvent, error)) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	work := clone(o)
	evs, err := mutate(&work)
	if err != nil {
		// prior state untouched
		return Order{}, err
	}
	s.orders[id] = clone(work)
	s.events[id] = append(s.events[id], evs...)
	return work, nil
}

func (s *MemStore) DeleteOrders(ctx context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, id := range ids {
		if _, ok := s.orders[id]; !ok {
			continue
		}
		delete(s.orders, id)
		delete(s.events, id)
		delete(s.notes, id)
		n++
	}
	return n, nil
}

func (s *MemStore) ListEvents(ctx context.Context, orderID string) ([]StatusEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[orderID]; !ok {
		return nil, ErrNotFound
	}
	evs := s.events[orderID]
	out := make([]StatusEvent, len(evs))
	copy(out, evs)
	return out, nil
}

func (s *MemStore) AddNote(ctx context.Context, n Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[n.OrderID]; !ok {
		return ErrNotFound
	}
	s.notes[n.OrderID] = append(s.notes[n.OrderID], n)
	return nil
}

func (s *MemStore) ListNotes(ctx context.Context, orderID string) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[orderID]; !ok {
		return nil, ErrNotFound
	}
	ns := s.notes[orderID]
	out := make([]Note, len(ns))
	copy(out, ns)
	return out, nil
}

func (s *MemStore) NextSequence(ctx context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs[name]++
	return s.seqs[name], nil
}

// clone deep-copies the slice and map fields so callers never alias
// stored state.
func clone(o Order) Order {
	c := o
	if o.Build.BodySpecs != nil {
		c.Build.BodySpecs = make(map[string]string, len(o.Build.BodySpecs))
		for k, v := range o.Build.BodySpecs {
			c.Build.BodySpecs[k] = v
		}
	}
	if o.Build.BodyAccessories != nil {
		c.Build.BodyAccessories = append([]string(nil), o.Build.BodyAccessories...)
	}
	if o.Tags != nil {
		c.Tags = append([]string(nil), o.Tags...)
	}
	c.OemEta = copyTime(o.OemEta)
	c.UpfitterEta = copyTime(o.UpfitterEta)
	c.DeliveryEta = copyTime(o.DeliveryEta)
	c.ActualOemCompleted = copyTime(o.ActualOemCompleted)
	c.ActualUpfitterCompleted = copyTime(o.ActualUpfitterCompleted)
	c.ActualDeliveryCompleted = copyTime(o.ActualDeliveryCompleted)
	return c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
