package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/elderlycare/elderlycare-backend/internal/services"
	"github.com/elderlycare/elderlycare-backend/internal/utils"
)

// OTPHandler handles scanner OTP issuance and verification
type OTPHandler struct {
	otps   *services.OTPService
	tokens *services.TokenService
}

// NewOTPHandler creates a new OTP handler
func NewOTPHandler(otps *services.OTPService, tokens *services.TokenService) *OTPHandler {
	return &OTPHandler{otps: otps, tokens: tokens}
}

// SendOTP issues and dispatches a scanner OTP
func (h *OTPHandler) SendOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		Name  string `json:"name"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone number is required",
		})
	}

	if err := h.otps.SendScannerOTP(req.Phone); err != nil {
		if errors.Is(err, services.ErrDispatchFailed) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to send OTP",
				"code":    services.ProviderErrorCode(err),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to send OTP",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent successfully",
	})
}

// VerifyOTP checks the submitted code and, on success, returns the
// short-lived access token that unlocks profile reads.
func (h *OTPHandler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Phone == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone and OTP are required",
		})
	}

	if err := h.otps.VerifyScannerOTP(req.Phone, req.OTP); err != nil {
		switch {
		case errors.Is(err, services.ErrOTPNotFound),
			errors.Is(err, services.ErrOTPMismatch),
			errors.Is(err, services.ErrOTPExpired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Error during verification",
			})
		}
	}

	token, err := h.tokens.GenerateScannerToken(utils.NormalizePhone(req.Phone))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to issue access token",
		})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "OTP verified successfully",
		"access_token": token,
	})
}
