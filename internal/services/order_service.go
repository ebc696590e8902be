package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kedai/internal/models"
	"kedai/internal/repositories"
	"kedai/internal/statemachine"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderPolicy holds the tunable numbers of the order lifecycle.
type OrderPolicy struct {
	DefaultEstimatedMinutes int
	TaxPercent              int
	DeliveryFee             int
	TrackingPollInterval    time.Duration
}

// DefaultOrderPolicy matches the storefront's checkout: 35 minute estimate,
// 10% tax, free delivery, 3 second tracking polls.
func DefaultOrderPolicy() OrderPolicy {
	return OrderPolicy{
		DefaultEstimatedMinutes: 35,
		TaxPercent:              10,
		DeliveryFee:             0,
		TrackingPollInterval:    3 * time.Second,
	}
}

// CreateOrderInput is what a customer submits at checkout.
type CreateOrderInput struct {
	Items                 []models.OrderItem `json:"items" validate:"required,min=1,dive"`
	Total                 int                `json:"total" validate:"gte=0"`
	DeliveryAddress       string             `json:"deliveryAddress" validate:"required"`
	PaymentMethod         string             `json:"paymentMethod" validate:"required"`
	CustomerName          string             `json:"customerName" validate:"required"`
	CustomerPhone         string             `json:"customerPhone" validate:"required"`
	EstimatedDeliveryTime *int               `json:"estimatedDeliveryTime" validate:"omitempty,gt=0"`
}

// OrderService handles the order lifecycle.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
	policy    OrderPolicy
	validate  *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher, policy OrderPolicy, logger *zap.Logger) *OrderService {
	if policy.DefaultEstimatedMinutes <= 0 {
		policy.DefaultEstimatedMinutes = DefaultOrderPolicy().DefaultEstimatedMinutes
	}
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		policy:    policy,
		validate:  newValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// ExpectedTotal is the server-side view of what an order should cost.
func (s *OrderService) ExpectedTotal(items []models.OrderItem) int {
	subtotal := models.Order{Items: items}.Subtotal()
	tax := (subtotal*s.policy.TaxPercent + 50) / 100
	return subtotal + s.policy.DeliveryFee + tax
}

// CreateOrder places a new order for userID.
func (s *OrderService) CreateOrder(userID string, input CreateOrderInput) (*models.Order, error) {
	input.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)
	input.PaymentMethod = strings.TrimSpace(input.PaymentMethod)
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	for i := range input.Items {
		input.Items[i].Name = strings.TrimSpace(input.Items[i].Name)
	}
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	// The client's arithmetic is trusted; a mismatch is only reported.
	if expected := s.ExpectedTotal(input.Items); expected != input.Total {
		s.logger.Warn("Order total does not match server computation",
			zap.String("userId", userID),
			zap.Int("total", input.Total),
			zap.Int("expected", expected))
	}

	estimate := s.policy.DefaultEstimatedMinutes
	if input.EstimatedDeliveryTime != nil {
		estimate = *input.EstimatedDeliveryTime
	}

	now := s.now()
	items := make([]models.OrderItem, len(input.Items))
	copy(items, input.Items)
	order := &models.Order{
		ID:                    uuid.New().String(),
		UserID:                userID,
		Items:                 items,
		Total:                 input.Total,
		Status:                statemachine.InitialStatus(),
		DeliveryAddress:       input.DeliveryAddress,
		PaymentMethod:         input.PaymentMethod,
		CustomerName:          input.CustomerName,
		CustomerPhone:         input.CustomerPhone,
		EstimatedDeliveryTime: estimate,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, s.storageFailure("create order", order.ID, err)
	}

	s.logger.Info("Order created",
		zap.String("orderId", order.ID),
		zap.String("userId", userID),
		zap.Int("items", len(order.Items)),
		zap.Int("total", order.Total))

	s.publish(models.OrderEvent{
		Type:                  models.EventOrderCreated,
		OrderID:               order.ID,
		UserID:                order.UserID,
		Status:                order.Status,
		EstimatedDeliveryTime: order.EstimatedDeliveryTime,
		Total:                 order.Total,
	})
	return order, nil
}

// GetOrder returns any order by ID without an ownership check.
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, s.storageFailure("get order", id, err)
	}
	return order, nil
}

// ListUserOrders returns userID's orders, newest first.
func (s *OrderService) ListUserOrders(userID string) ([]models.Order, error) {
	orders, err := s.orderRepo.ListByUser(userID)
	if err != nil {
		return nil, s.storageFailure("list user orders", "", err)
	}
	return orders, nil
}

// ListAllOrders returns every order, newest first, optionally narrowed to one status.
func (s *OrderService) ListAllOrders(status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, status)
	}
	orders, err := s.orderRepo.ListAll()
	if err != nil {
		return nil, s.storageFailure("list orders", "", err)
	}
	if status == "" {
		return orders, nil
	}
	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// TrackOrder returns the polling view of an order owned by caller.
func (s *OrderService) TrackOrder(id string, caller models.User) (*models.OrderTracking, error) {
	if caller.ID == "" {
		return nil, ErrUnauthorized
	}
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.ID {
		return nil, fmt.Errorf("%w: order %s belongs to another user", ErrForbidden, id)
	}
	return s.Tracking(*order), nil
}

// TrackOrderAsAdmin returns the polling view of any order.
func (s *OrderService) TrackOrderAsAdmin(id string) (*models.OrderTracking, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	return s.Tracking(*order), nil
}

// Tracking derives progress and estimated arrival from a stored order.
func (s *OrderService) Tracking(order models.Order) *models.OrderTracking {
	return &models.OrderTracking{
		Order:               order,
		Progress:            statemachine.Progress(order.Status),
		EstimatedArrival:    order.EstimatedArrival(),
		PollIntervalSeconds: int(s.policy.TrackingPollInterval / time.Second),
	}
}

// TransitionStatus moves an order to next along the lifecycle graph.
func (s *OrderService) TransitionStatus(id string, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, next)
	}
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	current := order.Status
	if current.Terminal() {
		return nil, fmt.Errorf("%w: order %s is already %s", ErrTerminalState, id, current)
	}
	if !statemachine.CanTransition(current, next) {
		return nil, fmt.Errorf("%w: %s -> %s is not allowed; valid transitions from %s are: %s",
			ErrInvalidTransition, current, next, current, statemachine.DescribeValidFrom(current))
	}

	updated, err := s.update(id, models.OrderUpdate{
		Status:   &next,
		OnlyFrom: []models.OrderStatus{current},
	}, ErrInvalidTransition)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("orderId", id),
		zap.String("from", string(current)),
		zap.String("to", string(next)))

	s.publish(models.OrderEvent{
		Type:           models.EventOrderStatusChanged,
		OrderID:        updated.ID,
		UserID:         updated.UserID,
		Status:         updated.Status,
		PreviousStatus: current,
	})
	return updated, nil
}

// UpdateDeliveryTime replaces the estimated delivery time of a live order.
func (s *OrderService) UpdateDeliveryTime(id string, minutes int) (*models.Order, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("%w: estimated delivery time must be a positive number of minutes", ErrInvalidInput)
	}
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("%w: order %s is already %s", ErrTerminalState, id, order.Status)
	}

	updated, err := s.update(id, models.OrderUpdate{
		EstimatedDeliveryTime: &minutes,
		OnlyFrom:              models.LiveStatuses(),
	}, ErrTerminalState)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order delivery time updated",
		zap.String("orderId", id),
		zap.Int("from", order.EstimatedDeliveryTime),
		zap.Int("to", minutes))

	s.publish(models.OrderEvent{
		Type:                  models.EventDeliveryTimeChanged,
		OrderID:               updated.ID,
		UserID:                updated.UserID,
		Status:                updated.Status,
		EstimatedDeliveryTime: updated.EstimatedDeliveryTime,
	})
	return updated, nil
}

// DeleteOrder removes a single order.
func (s *OrderService) DeleteOrder(id string) error {
	if err := s.orderRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return s.storageFailure("delete order", id, err)
	}
	s.logger.Info("Order deleted", zap.String("orderId", id))
	s.publish(models.OrderEvent{Type: models.EventOrderDeleted, OrderID: id})
	return nil
}

// ResetOrders irreversibly removes every order.
func (s *OrderService) ResetOrders() error {
	if err := s.orderRepo.DeleteAll(); err != nil {
		return s.storageFailure("reset orders", "", err)
	}
	s.logger.Warn("All orders deleted")
	s.publish(models.OrderEvent{Type: models.EventOrdersReset})
	return nil
}

// update writes fields. A concurrent status change since the caller's read
// is reported as changedErr.
func (s *OrderService) update(id string, fields models.OrderUpdate, changedErr error) (*models.Order, error) {
	updated, err := s.orderRepo.UpdatePartial(id, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		if errors.Is(err, repositories.ErrOrderStatusChanged) {
			s.logger.Warn("Order changed before update", zap.String("orderId", id), zap.Error(err))
			return nil, fmt.Errorf("%w: order %s was updated concurrently, reload and retry", changedErr, id)
		}
		return nil, s.storageFailure("update order", id, err)
	}
	return updated, nil
}

func (s *OrderService) storageFailure(op, orderID string, err error) error {
	s.logger.Error("Order storage operation failed",
		zap.String("op", op),
		zap.String("orderId", orderID),
		zap.Error(err))
	return fmt.Errorf("%w: could not %s", ErrStorageFailure, op)
}

// publish is best-effort: failures are logged and never reach the caller.
func (s *OrderService) publish(event models.OrderEvent) {
	if s.publisher == nil {
		return
	}
	event.EventID = uuid.New().String()
	event.Timestamp = s.now().UTC()
	if err := s.publisher.PublishOrderEvent(event); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("type", string(event.Type)),
			zap.String("orderId", event.OrderID),
			zap.Error(err))
	}
}
