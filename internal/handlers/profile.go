package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/middleware"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
)

// ProfileHandler serves the signed-in guest's profile
type ProfileHandler struct {
	profiles *services.ProfileService
	logger   *zap.Logger
}

func NewProfileHandler(profiles *services.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	user, err := h.profiles.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	userID, _ := middleware.UserID(c)
	user, err := h.profiles.UpdateProfile(c.UserContext(), userID, req.FullName, req.Email)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}
