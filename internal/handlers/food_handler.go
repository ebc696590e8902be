package handlers

import (
	"kedai/internal/models"
	"kedai/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FoodHandler handles HTTP requests for the menu.
type FoodHandler struct {
	service *services.FoodService
	logger  *zap.Logger
}

// NewFoodHandler creates a new FoodHandler.
func NewFoodHandler(service *services.FoodService, logger *zap.Logger) *FoodHandler {
	return &FoodHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the public menu routes.
func (h *FoodHandler) RegisterRoutes(router fiber.Router) {
	foodRoutes := router.Group("/foods")
	foodRoutes.Get("/", h.HandleGetMenu)
	foodRoutes.Get("/:id", h.HandleGetFoodByID)
}

// RegisterAdminRoutes registers menu management on an admin-only router.
func (h *FoodHandler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Get("/foods", h.HandleGetAllFoods)
	admin.Post("/foods", h.HandleCreateFood)
	admin.Patch("/foods/:id", h.HandleUpdateFood)
	admin.Delete("/foods/:id", h.HandleDeleteFood)
}

// HandleGetMenu lists the foods that can be ordered.
func (h *FoodHandler) HandleGetMenu(c *fiber.Ctx) error {
	foods, err := h.service.GetMenu()
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(foods)
}

// HandleGetAllFoods lists every food, including unavailable ones.
func (h *FoodHandler) HandleGetAllFoods(c *fiber.Ctx) error {
	foods, err := h.service.GetAllFoods()
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(foods)
}

// HandleGetFoodByID retrieves a single food by its ID.
func (h *FoodHandler) HandleGetFoodByID(c *fiber.Ctx) error {
	food, err := h.service.GetFoodByID(c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(food)
}

// HandleCreateFood adds a food to the menu.
func (h *FoodHandler) HandleCreateFood(c *fiber.Ctx) error {
	// Fields missing from the body keep these defaults.
	food := models.FoodItem{IsVeg: true, Available: true, Rating: 4}
	if err := c.BodyParser(&food); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.service.CreateFood(&food); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(food)
}

// HandleUpdateFood changes the given fields of a food.
func (h *FoodHandler) HandleUpdateFood(c *fiber.Ctx) error {
	var patch services.FoodPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	food, err := h.service.UpdateFood(c.Params("id"), patch)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(food)
}

// HandleDeleteFood removes a food from the menu.
func (h *FoodHandler) HandleDeleteFood(c *fiber.Ctx) error {
	if err := h.service.DeleteFood(c.Params("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
