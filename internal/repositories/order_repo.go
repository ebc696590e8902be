package repositories

import (
	"errors"

	"kedai/internal/models"
)

// ErrOrderNotFound is returned when no order has the requested ID.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderStatusChanged is returned when a guarded update finds the order in a
// status outside OrderUpdate.OnlyFrom.
var ErrOrderStatusChanged = errors.New("order status changed")

// OrderRepository defines the interface for order data access.
// Lists are ordered newest-created first.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	ListByUser(userID string) ([]models.Order, error)
	ListAll() ([]models.Order, error)
	// UpdatePartial applies the non-nil fields, refreshes UpdatedAt and returns the stored order.
	// A non-empty OnlyFrom makes the check and the write a single step.
	UpdatePartial(id string, fields models.OrderUpdate) (*models.Order, error)
	Delete(id string) error
	// DeleteAll is irreversible. Callers must confirm it at the API boundary.
	DeleteAll() error
}
