package handlers

import (
	"kedai/internal/middleware"
	"kedai/internal/models"
	"kedai/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminHandler handles order management, statistics and user management.
type AdminHandler struct {
	orders *services.OrderService
	stats  *services.StatsService
	users  *services.UserService
	polls  PollIntervals
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(orders *services.OrderService, stats *services.StatsService, users *services.UserService, polls PollIntervals, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		orders: orders,
		stats:  stats,
		users:  users,
		polls:  polls,
		logger: logger,
	}
}

// RegisterRoutes registers the admin routes on a router already guarded by
// session and admin checks.
func (h *AdminHandler) RegisterRoutes(admin fiber.Router) {
	admin.Get("/orders", h.HandleListOrders)
	admin.Delete("/orders", h.HandleResetOrders)
	admin.Get("/orders/:id", h.HandleGetOrder)
	admin.Patch("/orders/:id/status", h.HandleUpdateStatus)
	admin.Patch("/orders/:id/delivery-time", h.HandleUpdateDeliveryTime)
	admin.Delete("/orders/:id", h.HandleDeleteOrder)

	admin.Get("/stats", h.HandleGetStats)

	admin.Get("/users", h.HandleListUsers)
	admin.Post("/users", h.HandleCreateUser)
	admin.Patch("/users/:id", h.HandleUpdateUser)
	admin.Patch("/users/:id/reset-password", h.HandleResetPassword)
	admin.Delete("/users/:id", h.HandleDeleteUser)
}

// HandleListOrders lists every order, optionally filtered by ?status=.
func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListAllOrders(models.OrderStatus(c.Query("status")))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	setPollHeaders(c, h.polls.OrderList)
	return c.JSON(orders)
}

// HandleGetOrder returns any order with its progress.
func (h *AdminHandler) HandleGetOrder(c *fiber.Ctx) error {
	tracking, err := h.orders.TrackOrderAsAdmin(c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	setPollHeaders(c, h.polls.Tracking)
	return c.JSON(tracking)
}

// HandleUpdateStatus moves an order along its lifecycle.
func (h *AdminHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body for status update", err)
	}
	if req.Status == "" {
		return badRequest(c, "Status is required for order status update.", nil)
	}

	order, err := h.orders.TransitionStatus(c.Params("id"), models.OrderStatus(req.Status))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(order)
}

// HandleUpdateDeliveryTime replaces an order's estimated delivery time.
func (h *AdminHandler) HandleUpdateDeliveryTime(c *fiber.Ctx) error {
	var req struct {
		EstimatedDeliveryTime *int `json:"estimatedDeliveryTime"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body for delivery time update", err)
	}
	if req.EstimatedDeliveryTime == nil {
		return badRequest(c, "estimatedDeliveryTime is required.", nil)
	}

	order, err := h.orders.UpdateDeliveryTime(c.Params("id"), *req.EstimatedDeliveryTime)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder removes a single order.
func (h *AdminHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.orders.DeleteOrder(c.Params("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleResetOrders wipes every order. It requires ?confirm=true.
func (h *AdminHandler) HandleResetOrders(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return badRequest(c, "Resetting orders is irreversible; repeat the request with ?confirm=true.", nil)
	}

	admin, _ := middleware.CurrentUser(c)
	h.logger.Warn("Order reset requested", zap.String("userId", admin.ID))

	if err := h.orders.ResetOrders(); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetStats returns the dashboard snapshot.
func (h *AdminHandler) HandleGetStats(c *fiber.Ctx) error {
	stats, err := h.stats.GetStats()
	if err != nil {
		return writeError(c, h.logger, err)
	}
	setPollHeaders(c, h.polls.Stats)
	return c.JSON(stats)
}

// HandleListUsers lists active users.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers()
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(users)
}

// HandleCreateUser adds an account, optionally with the admin role.
func (h *AdminHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req services.CreateUserInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	user, err := h.users.CreateUser(req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleUpdateUser edits a user's name, phone or role.
func (h *AdminHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req services.UpdateUserInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	admin, _ := middleware.CurrentUser(c)
	user, err := h.users.UpdateUser(c.Params("id"), admin.ID, req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(user)
}

// HandleResetPassword issues a temporary password. It is shown only in this response.
func (h *AdminHandler) HandleResetPassword(c *fiber.Ctx) error {
	tempPassword, err := h.users.ResetPassword(c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(fiber.Map{
		"message":      "Password reset successfully",
		"tempPassword": tempPassword,
	})
}

// HandleDeleteUser deactivates a user and ends their sessions.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	admin, _ := middleware.CurrentUser(c)
	if err := h.users.DeleteUser(c.Params("id"), admin.ID); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
