package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/elderlycare/elderlycare-backend/internal/services"
)

// RequireScannerToken guards profile reads behind the capability token issued
// by a successful OTP verification. The token is accepted from the
// Authorization header or, for links embedded in the profile page, from the
// "token" query parameter.
func RequireScannerToken(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "OTP verification required",
			})
		}

		claims, err := tokens.Parse(token, services.TokenTypeScanner)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired access token",
			})
		}

		c.Locals("scannerPhone", claims.Phone)
		return c.Next()
	}
}
