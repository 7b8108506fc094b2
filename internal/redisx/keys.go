package redisx

import "time"

const (
	// Cached order snapshot: build_order:{order_id} -> order JSON
	KeyOrder = "build_order:%s"

	// Dedup for event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Cached quote per configuration hash: quote:{hash} -> breakdown JSON
	KeyQuote = "quote:%s"
)

var (
	TTLOrderCache = 5 * time.Minute
	TTLDedup      = 48 * time.Hour
	TTLQuoteCache = 10 * time.Minute
)
