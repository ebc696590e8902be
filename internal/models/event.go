package models

import "time"

// OrderEventType names a change in an order's life.
type OrderEventType string

const (
	EventOrderCreated        OrderEventType = "order.created"
	EventOrderStatusChanged  OrderEventType = "order.status_changed"
	EventDeliveryTimeChanged OrderEventType = "order.delivery_time_changed"
	EventOrderDeleted        OrderEventType = "order.deleted"
	EventOrdersReset         OrderEventType = "orders.reset"
)

// OrderEvent is published after an order mutation is persisted.
type OrderEvent struct {
	EventID               string         `json:"eventId"`
	Type                  OrderEventType `json:"type"`
	OrderID               string         `json:"orderId,omitempty"`
	UserID                string         `json:"userId,omitempty"`
	Status                OrderStatus    `json:"status,omitempty"`
	PreviousStatus        OrderStatus    `json:"previousStatus,omitempty"`
	EstimatedDeliveryTime int            `json:"estimatedDeliveryTime,omitempty"`
	Total                 int            `json:"total,omitempty"`
	Timestamp             time.Time      `json:"timestamp"`
}
