package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"kedai/internal/models"

	"github.com/google/uuid"
)

type storedOrder struct {
	order models.Order
	seq   uint64
}

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
type MemoryOrderRepository struct {
	orders map[string]storedOrder
	seq    uint64
	now    func() time.Time
	mu     sync.RWMutex
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]storedOrder),
		now:    time.Now,
	}
}

// Create adds a new order.
func (r *MemoryOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("order with ID %s already exists", order.ID)
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = r.now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
	r.seq++
	r.orders[order.ID] = storedOrder{order: cloneOrder(*order), seq: r.seq}
	return nil
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrOrderNotFound)
	}
	order := cloneOrder(stored.order)
	return &order, nil
}

// ListByUser returns the orders owned by userID.
func (r *MemoryOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	return r.list(func(o models.Order) bool { return o.UserID == userID }), nil
}

// ListAll returns all orders.
func (r *MemoryOrderRepository) ListAll() ([]models.Order, error) {
	return r.list(func(models.Order) bool { return true }), nil
}

func (r *MemoryOrderRepository) list(keep func(models.Order) bool) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]storedOrder, 0, len(r.orders))
	for _, stored := range r.orders {
		if keep(stored.order) {
			matched = append(matched, stored)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.order.CreatedAt.Equal(b.order.CreatedAt) {
			return a.order.CreatedAt.After(b.order.CreatedAt)
		}
		return a.seq > b.seq
	})

	orderList := make([]models.Order, len(matched))
	for i, stored := range matched {
		orderList[i] = cloneOrder(stored.order)
	}
	return orderList
}

// UpdatePartial updates the given fields of an order.
func (r *MemoryOrderRepository) UpdatePartial(id string, fields models.OrderUpdate) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found for update: %w", id, ErrOrderNotFound)
	}
	if len(fields.OnlyFrom) > 0 && !containsStatus(fields.OnlyFrom, stored.order.Status) {
		return nil, fmt.Errorf("order %s is %s: %w", id, stored.order.Status, ErrOrderStatusChanged)
	}
	if fields.Status != nil {
		stored.order.Status = *fields.Status
	}
	if fields.EstimatedDeliveryTime != nil {
		stored.order.EstimatedDeliveryTime = *fields.EstimatedDeliveryTime
	}
	stored.order.UpdatedAt = r.now()
	r.orders[id] = stored

	order := cloneOrder(stored.order)
	return &order, nil
}

// Delete removes an order by its ID.
func (r *MemoryOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order with ID %s not found for deletion: %w", id, ErrOrderNotFound)
	}
	delete(r.orders, id)
	return nil
}

// DeleteAll removes every order.
func (r *MemoryOrderRepository) DeleteAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = make(map[string]storedOrder)
	return nil
}

func containsStatus(statuses []models.OrderStatus, s models.OrderStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func cloneOrder(o models.Order) models.Order {
	if o.Items != nil {
		items := make([]models.OrderItem, len(o.Items))
		copy(items, o.Items)
		o.Items = items
	}
	if o.ActualDeliveryTime != nil {
		v := *o.ActualDeliveryTime
		o.ActualDeliveryTime = &v
	}
	return o
}
