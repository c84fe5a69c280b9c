package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/elderlycare/elderlycare-backend/internal/services"
	"github.com/elderlycare/elderlycare-backend/internal/utils"
)

// AlertHandler handles emergency alert dispatch
type AlertHandler struct {
	alerts *services.AlertService
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alerts *services.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// SendAlert composes and dispatches an emergency alert to the emergency
// contact. Single best-effort send; dispatcher errors surface with the
// provider code and no retry.
func (h *AlertHandler) SendAlert(c *fiber.Ctx) error {
	var req struct {
		To           string   `json:"to"`
		ProfileName  string   `json:"profile_name"`
		ScannerName  string   `json:"scanner_name"`
		ScannerPhone string   `json:"scanner_phone"`
		Latitude     *float64 `json:"latitude"`
		Longitude    *float64 `json:"longitude"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.To == "" || req.ProfileName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Recipient and profile name are required",
		})
	}

	scannerName := req.ScannerName
	if scannerName == "" {
		scannerName = "Unknown Scanner"
	}
	scannerPhone := req.ScannerPhone
	if scannerPhone == "" {
		scannerPhone = "Unknown Phone"
	}

	sid, err := h.alerts.SendEmergencyAlert(
		utils.NormalizePhone(req.To),
		req.ProfileName, scannerName, scannerPhone,
		req.Latitude, req.Longitude,
	)
	if err != nil {
		if errors.Is(err, services.ErrDispatchFailed) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "SMS failed",
				"code":    services.ProviderErrorCode(err),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to send alert",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"sid":     sid,
	})
}
