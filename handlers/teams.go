// handlers/teams.go
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jleboube/scout/models"
)

type TeamHandler struct {
	db *gorm.DB
}

func NewTeamHandler(db *gorm.DB) *TeamHandler {
	return &TeamHandler{db: db}
}

// GetTeams lists every team, for the registration form
// GET /api/teams
func (h *TeamHandler) GetTeams(c *fiber.Ctx) error {
	teams := make([]models.Team, 0)
	if err := h.db.Order("id").Find(&teams).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Server error"})
	}

	return c.JSON(teams)
}
