// Package queue defines message payloads exchanged over the message
// broker, plus the publisher and the background consumer.
package queue

// OrderPlacedEvent is published when an order has been committed. It
// carries enough information for downstream consumers to log, notify
// or trigger analytics without querying the primary database.
type OrderPlacedEvent struct {
	OrderID     uint64 `json:"order_id"`
	CustomerID  uint64 `json:"customer_id"`
	CompanyName string `json:"company_name"`
	LineCount   int    `json:"line_count"`
	Total       string `json:"total"`
	OrderDate   string `json:"order_date"`
}
