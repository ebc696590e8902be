package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusOnTheWay  OrderStatus = "on_the_way"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []OrderStatus{
	StatusConfirmed,
	StatusPreparing,
	StatusOnTheWay,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is accepted from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// OrderItem represents a single line of an order.
type OrderItem struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
	Price    int    `json:"price" validate:"gte=0"` // Unit price at the time of order
}

// Order represents a customer order.
type Order struct {
	ID                    string      `json:"id"`
	UserID                string      `json:"userId"`
	Items                 []OrderItem `json:"items"`
	Total                 int         `json:"total"`
	Status                OrderStatus `json:"status"`
	DeliveryAddress       string      `json:"deliveryAddress"`
	PaymentMethod         string      `json:"paymentMethod"`
	CustomerName          string      `json:"customerName"`
	CustomerPhone         string      `json:"customerPhone"`
	EstimatedDeliveryTime int         `json:"estimatedDeliveryTime"` // minutes
	ActualDeliveryTime    *int        `json:"actualDeliveryTime"`    // minutes, never written
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
}

// Subtotal sums unit price times quantity over all items.
func (o Order) Subtotal() int {
	sum := 0
	for _, item := range o.Items {
		sum += item.Price * item.Quantity
	}
	return sum
}

// EstimatedArrival is derived on every read and never stored.
func (o Order) EstimatedArrival() time.Time {
	return o.CreatedAt.Add(time.Duration(o.EstimatedDeliveryTime) * time.Minute)
}

// OrderUpdate holds the fields a partial update may change. Nil fields are left alone.
type OrderUpdate struct {
	Status                *OrderStatus
	EstimatedDeliveryTime *int
	// OnlyFrom, when set, applies the update only while the stored status is one of these.
	OnlyFrom []OrderStatus
}

// LiveStatuses returns the statuses that still accept changes.
func LiveStatuses() []OrderStatus {
	live := make([]OrderStatus, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		if !s.Terminal() {
			live = append(live, s)
		}
	}
	return live
}

// OrderTracking is the polling view of a single order.
type OrderTracking struct {
	Order
	Progress            TrackingProgress `json:"progress"`
	EstimatedArrival    time.Time        `json:"estimatedArrival"`
	PollIntervalSeconds int              `json:"pollIntervalSeconds"`
}

// TrackingProgress places an order on the canonical step sequence.
type TrackingProgress struct {
	Step         int           `json:"step"` // -1 when halted
	TotalSteps   int           `json:"totalSteps"`
	Halted       bool          `json:"halted"`
	Terminal     bool          `json:"terminal"`
	NextStatuses []OrderStatus `json:"nextStatuses"`
}
