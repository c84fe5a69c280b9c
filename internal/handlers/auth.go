package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/elderlycare/elderlycare-backend/internal/services"
)

// AuthHandler handles registration, login, and password reset
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func otpFailureStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrOTPNotFound),
		errors.Is(err, services.ErrOTPMismatch),
		errors.Is(err, services.ErrOTPExpired):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrDispatchFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// Register starts registration by emailing a verification OTP
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Email is required",
		})
	}

	if err := h.auth.Register(req.Email); err != nil {
		if errors.Is(err, services.ErrUserExists) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "User already exists",
			})
		}
		return c.Status(otpFailureStatus(err)).JSON(fiber.Map{
			"message": "Failed to send OTP",
		})
	}

	return c.JSON(fiber.Map{
		"message":   "OTP sent to email",
		"email":     req.Email,
		"next_step": "verify",
	})
}

// VerifyOTP confirms the registration OTP and returns a proof token
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Email and OTP are required",
		})
	}

	token, err := h.auth.VerifyRegistrationOTP(req.Email, req.OTP)
	if err != nil {
		return c.Status(otpFailureStatus(err)).JSON(fiber.Map{
			"message": "Invalid OTP",
		})
	}

	return c.JSON(fiber.Map{
		"message":            "Email verified successfully",
		"email":              req.Email,
		"registration_token": token,
		"next_step":          "complete-registration",
	})
}

// CompleteRegistration creates the account after email verification
func (h *AuthHandler) CompleteRegistration(c *fiber.Ctx) error {
	var req struct {
		RegistrationToken string `json:"registration_token"`
		Name              string `json:"name"`
		Password          string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.RegistrationToken == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Registration token and password are required",
		})
	}

	user, token, err := h.auth.CompleteRegistration(req.RegistrationToken, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Email not verified",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   token,
		"user":    fiber.Map{"user_id": user.UserID, "email": user.Email, "name": user.Name},
		"message": "Registration completed successfully",
	})
}

// Login checks credentials and returns a session token
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Email and password are required",
		})
	}

	user, token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid credentials",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  fiber.Map{"user_id": user.UserID, "email": user.Email},
	})
}

// ForgotPassword emails a reset OTP
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Email is required",
		})
	}

	if err := h.auth.ForgotPassword(req.Email); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		return c.Status(otpFailureStatus(err)).JSON(fiber.Map{
			"message": "Failed to send OTP",
		})
	}

	return c.JSON(fiber.Map{
		"message":   "OTP sent to email",
		"email":     req.Email,
		"next_step": "verify-reset-otp",
	})
}

// VerifyResetOTP confirms the reset OTP and returns a reset token
func (h *AuthHandler) VerifyResetOTP(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Email and OTP are required",
		})
	}

	token, err := h.auth.VerifyResetOTP(req.Email, req.OTP)
	if err != nil {
		return c.Status(otpFailureStatus(err)).JSON(fiber.Map{
			"message": "Invalid or expired OTP",
		})
	}

	return c.JSON(fiber.Map{
		"message":     "OTP verified successfully",
		"email":       req.Email,
		"reset_token": token,
		"next_step":   "reset-password",
	})
}

// ResetPassword sets a new password using the reset token
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		ResetToken  string `json:"reset_token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil || req.ResetToken == "" || req.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Reset token and new password are required",
		})
	}

	if err := h.auth.ResetPassword(req.ResetToken, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired reset token",
			})
		}
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Password reset successfully",
		"next_step": "login",
	})
}
