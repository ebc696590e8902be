package middleware

import (
	"errors"
	"strings"

	"kedai/internal/models"
	"kedai/internal/services"
	"kedai/internal/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHeader carries the session token as an alternative to Authorization.
const SessionHeader = "X-Session-Id"

const (
	localsSession = "session"
	localsToken   = "session_token"
)

// SessionResolver turns a presented token into a live session.
type SessionResolver interface {
	ResolveSession(token string) (session.Session, error)
}

// SessionRequired rejects requests without a live session and stores the
// session in the Fiber context for subsequent handlers.
func SessionRequired(resolver SessionResolver, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}

		sess, err := resolver.ResolveSession(token)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthorized) {
				logger.Error("Session lookup failed", zap.Error(err))
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired session",
			})
		}

		c.Locals(localsSession, sess)
		c.Locals(localsToken, token)
		return c.Next()
	}
}

// AdminRequired must run after SessionRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// TokenFromRequest reads the session token from X-Session-Id or a Bearer
// Authorization header.
func TokenFromRequest(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get(SessionHeader)); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// CurrentSession returns the session stored by SessionRequired.
func CurrentSession(c *fiber.Ctx) (session.Session, bool) {
	sess, ok := c.Locals(localsSession).(session.Session)
	return sess, ok
}

// CurrentUser returns the user snapshot of the current session.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	sess, ok := CurrentSession(c)
	if !ok {
		return models.User{}, false
	}
	return sess.User, true
}

// CurrentToken returns the token that authenticated the request.
func CurrentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localsToken).(string)
	return token
}
