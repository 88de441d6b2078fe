package types

// PlaceOrderInput is the client payload for a new order. CustomerID is accepted
// only so it can be discarded; the service always uses the requesting principal.
type PlaceOrderInput struct {
	CustomerID     *int64
	Status         string
	IdempotencyKey string
}

// ListOrdersQuery carries the optional request-driven list parameters.
type ListOrdersQuery struct {
	Status   *string
	Ordering []string
	Search   string
}

// UpdateOrderStatusInput changes the status of an existing order.
type UpdateOrderStatusInput struct {
	ID     int64
	Status string
}
