package models

import "time"

const (
	NotificationNewOrder    = "new_order"
	NotificationOrderStatus = "order_status"
)

// Notification is the payload served by the polling relay and pushed over the
// websocket hub. Clients deduplicate by timestamp, so both channels may carry
// the same event.
type Notification struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
