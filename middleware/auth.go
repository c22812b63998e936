// middleware/auth.go
package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jleboube/scout/services"
)

// SessionCookie carries the opaque session token.
const SessionCookie = "scout_session"

// RequireAuth resolves the session cookie to a user ID and stores it in the
// request locals. Missing, unknown and expired tokens all read the same.
func RequireAuth(sessions *services.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
		}

		userID, ok := sessions.Get(token)
		if !ok {
			ClearSessionCookie(c)
			return c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
		}

		c.Locals("userId", userID)
		return c.Next()
	}
}

// GetUserID returns the authenticated user ID set by RequireAuth.
func GetUserID(c *fiber.Ctx) (uint, error) {
	userID := c.Locals("userId")
	if userID == nil {
		return 0, fiber.NewError(401, "User not authenticated")
	}

	if id, ok := userID.(uint); ok {
		return id, nil
	}

	return 0, fiber.NewError(401, "Invalid user ID format")
}

// SetSessionCookie attaches a session token to the response.
func SetSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		MaxAge:   int(services.SessionTTL.Seconds()),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}
