package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/elderlycare/elderlycare-backend/internal/models"
	"github.com/elderlycare/elderlycare-backend/internal/services"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
)

// RecommendationHandler serves templated health and first-aid text
type RecommendationHandler struct {
	store           storage.Store
	recommendations *services.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(store storage.Store, recommendations *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{store: store, recommendations: recommendations}
}

// GetRecommendations returns recommendation text for the user's profile.
// kind is "health" (default) or "firstaid".
func (h *RecommendationHandler) GetRecommendations(c *fiber.Ctx) error {
	userID := c.Params("userId")
	requester, _ := c.Locals("userID").(string)
	role, _ := c.Locals("role").(string)

	if requester != userID && role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Unauthorized access to recommendations",
		})
	}

	kind := c.Query("kind", models.RecommendationHealth)
	if kind != models.RecommendationHealth && kind != models.RecommendationFirstAid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "kind must be 'health' or 'firstaid'",
		})
	}

	profile, err := h.store.GetLatestProfileByUser(userID)
	if err != nil {
		if err == storage.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Medical profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching medical profile",
		})
	}

	text, err := h.recommendations.Generate(profile, kind)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate recommendations",
		})
	}

	return c.JSON(fiber.Map{
		"user_id":         userID,
		"kind":            kind,
		"recommendations": text,
	})
}
