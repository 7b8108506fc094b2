package orders

const (
	TopicOrderIntake   = "build-orders.intake"
	TopicStatusChanged = "build-orders.status"
)

// Partition key = order id, so every event for one order stays ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
