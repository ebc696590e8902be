package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"kedai/internal/middleware"
	"kedai/internal/models"
	"kedai/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PollIntervals are the refresh hints sent with polled responses.
type PollIntervals struct {
	Tracking  time.Duration
	OrderList time.Duration
	Stats     time.Duration
}

// OrderHandler handles the customer's order routes.
type OrderHandler struct {
	service *services.OrderService
	polls   PollIntervals
	logger  *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, polls PollIntervals, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		polls:   polls,
		logger:  logger,
	}
}

// RegisterRoutes registers the order routes. Every route requires a session.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, requireSession fiber.Handler) {
	orderRoutes := router.Group("/orders", requireSession)
	orderRoutes.Get("/", h.HandleGetMyOrders)
	orderRoutes.Get("/:id", h.HandleTrackOrder)
	orderRoutes.Post("/", h.HandleCreateOrder)
}

// orderItems accepts either a JSON array of items or that array encoded as a string.
type orderItems []models.OrderItem

func (i *orderItems) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		data = []byte(encoded)
	}
	var items []models.OrderItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("items must be a list of {name, quantity, price}: %w", err)
	}
	*i = items
	return nil
}

type createOrderRequest struct {
	Items                 orderItems `json:"items"`
	Total                 int        `json:"total"`
	DeliveryAddress       string     `json:"deliveryAddress"`
	PaymentMethod         string     `json:"paymentMethod"`
	CustomerName          string     `json:"customerName"`
	CustomerPhone         string     `json:"customerPhone"`
	EstimatedDeliveryTime *int       `json:"estimatedDeliveryTime"`
}

// HandleCreateOrder places an order for the current user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return writeError(c, h.logger, services.ErrUnauthorized)
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	order, err := h.service.CreateOrder(user.ID, services.CreateOrderInput{
		Items:                 req.Items,
		Total:                 req.Total,
		DeliveryAddress:       req.DeliveryAddress,
		PaymentMethod:         req.PaymentMethod,
		CustomerName:          req.CustomerName,
		CustomerPhone:         req.CustomerPhone,
		EstimatedDeliveryTime: req.EstimatedDeliveryTime,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetMyOrders lists the current user's orders, newest first.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return writeError(c, h.logger, services.ErrUnauthorized)
	}

	orders, err := h.service.ListUserOrders(user.ID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	setPollHeaders(c, h.polls.OrderList)
	return c.JSON(orders)
}

// HandleTrackOrder returns one of the current user's orders with its progress.
func (h *OrderHandler) HandleTrackOrder(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return writeError(c, h.logger, services.ErrUnauthorized)
	}

	tracking, err := h.service.TrackOrder(c.Params("id"), user)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	setPollHeaders(c, h.polls.Tracking)
	return c.JSON(tracking)
}
