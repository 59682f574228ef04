package service

import (
	"context"
)

// OrderEvent is published after checkout and after every order status change,
// for downstream consumers (fulfilment, analytics).
type OrderEvent struct {
	RequestID   string  `json:"request_id,omitempty"` // For distributed tracing
	OrderID     string  `json:"order_id"`
	UserID      string  `json:"user_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	ItemCount   int     `json:"item_count"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderEvent publishes an order event for async processing
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
