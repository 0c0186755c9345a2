package models

import "time"

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusUpdated = "order_status_updated"
	EventOrderCancelled     = "order_cancelled"
	EventUserRegistered     = "user_registered"
)

// Event is the envelope published on the events topic.
type Event struct {
	EventType   string    `json:"eventType"`
	OrderID     string    `json:"orderId,omitempty"`
	OrderNumber string    `json:"orderNumber,omitempty"`
	UserID      string    `json:"userId"`
	Email       string    `json:"email,omitempty"`
	Status      string    `json:"status,omitempty"`
	TotalPrice  float64   `json:"totalPrice,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}
