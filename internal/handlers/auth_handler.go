package handlers

import (
	"kedai/internal/middleware"
	"kedai/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication and profiles.
type AuthHandler struct {
	authService *services.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes. requireSession guards
// the routes that act on the current user.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, requireSession fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", requireSession, h.HandleLogout)
	authRoutes.Get("/user", requireSession, h.HandleCurrentUser)
	authRoutes.Patch("/profile", requireSession, h.HandleUpdateProfile)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	result, err := h.authService.Register(req)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	c.Set(middleware.SessionHeader, result.Token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "User registered successfully",
		"user":      result.User,
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
	})
}

// HandleLogin handles user login and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	result, err := h.authService.Login(req)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	c.Set(middleware.SessionHeader, result.Token)
	return c.JSON(fiber.Map{
		"message":   "Login successful",
		"user":      result.User,
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
	})
}

// HandleLogout ends the current session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.authService.Logout(middleware.CurrentToken(c))
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCurrentUser returns the session's user snapshot.
func (h *AuthHandler) HandleCurrentUser(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return writeError(c, h.logger, services.ErrUnauthorized)
	}
	return c.JSON(fiber.Map{"user": user})
}

// HandleUpdateProfile edits the current user's profile.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return writeError(c, h.logger, services.ErrUnauthorized)
	}

	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	updated, err := h.authService.UpdateProfile(user.ID, req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"user": updated})
}
