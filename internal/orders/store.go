package orders

import "context"

// Sequence names owned by the store.
const (
	SeqStock = "stock"
	SeqVin   = "vin"
)

// Store is the durable order collection. Implementations must give
// UpdateOrder exclusive access to the one record it touches: the mutate
// callback runs under a per-order lock (or inside a row-locking
// transaction) and its returned events are appended atomically with the
// order write. A mutate error aborts the update with no partial write.
type Store interface {
	GetOrder(ctx context.Context, id string) (Order, error)
	ListOrders(ctx context.Context, f Filter) ([]Order, error)
	InsertOrder(ctx context.Context, o Order, initial StatusEvent) error
	UpdateOrder(ctx context.Context, id string, mutate func(o *Order) ([]StatusEvent, error)) (Order, error)
	DeleteOrders(ctx context.Context, ids []string) (int, error)

	ListEvents(ctx context.Context, orderID string) ([]StatusEvent, error)

	AddNote(ctx context.Context, n Note) error
	ListNotes(ctx context.Context, orderID string) ([]Note, error)

	NextSequence(ctx context.Context, name string) (int, error)
}
