// handlers/auth.go - Registration, login and session endpoints
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jleboube/scout/middleware"
	"github.com/jleboube/scout/services"
)

type RegisterRequest struct {
	Email            string `json:"email" form:"email"`
	Password         string `json:"password" form:"password"`
	TeamID           *uint  `json:"teamId" form:"teamId"`
	RegistrationCode string `json:"registrationCode" form:"registrationCode"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type AuthHandler struct {
	auth     *services.AuthService
	sessions *services.SessionStore
}

func NewAuthHandler(auth *services.AuthService, sessions *services.SessionStore) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// Register creates a new user account and logs it in
// POST /api/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email and password required"})
	}

	user, err := h.auth.Register(req.Email, req.Password, req.TeamID, req.RegistrationCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCode):
			return c.Status(400).JSON(fiber.Map{"error": "Invalid registration code"})
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(400).JSON(fiber.Map{"error": "Email already registered"})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Server error"})
		}
	}

	token, err := h.sessions.Create(user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Server error"})
	}
	middleware.SetSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"message": "Registration successful",
		"userId":  user.ID,
	})
}

// Login authenticates an existing user
// POST /api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Server error"})
	}

	token, err := h.sessions.Create(user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Server error"})
	}
	middleware.SetSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"userId":  user.ID,
	})
}

// Logout destroys the server-side session. Idempotent: logging out without
// a session (or twice) still succeeds.
// POST /api/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(middleware.SessionCookie); token != "" {
		h.sessions.Destroy(token)
	}
	middleware.ClearSessionCookie(c)

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// GetCurrentUser returns the authenticated identity with its team name
// GET /api/user
func (h *AuthHandler) GetCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
	}

	profile, err := h.auth.CurrentUser(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Server error"})
	}

	return c.JSON(profile)
}
