package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/elderlycare/elderlycare-backend/internal/handlers"
	"github.com/elderlycare/elderlycare-backend/internal/middleware"
	"github.com/elderlycare/elderlycare-backend/internal/services"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
)

// Deps carries the initialized services the routes need
type Deps struct {
	Store           storage.Store
	OTPs            *services.OTPService
	Tokens          *services.TokenService
	Auth            *services.AuthService
	Alerts          *services.AlertService
	QRs             *services.QRService
	Recommendations *services.RecommendationService
	Email           services.EmailSender
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, deps Deps) {
	otpHandler := handlers.NewOTPHandler(deps.OTPs, deps.Tokens)
	medicalHandler := handlers.NewMedicalHandler(deps.Store)
	qrHandler := handlers.NewQRHandler(deps.Store, deps.QRs, deps.Recommendations)
	alertHandler := handlers.NewAlertHandler(deps.Alerts)
	authHandler := handlers.NewAuthHandler(deps.Auth)
	contactHandler := handlers.NewContactHandler(deps.Store, deps.Email)
	recommendationHandler := handlers.NewRecommendationHandler(deps.Store, deps.Recommendations)

	requireUser := middleware.RequireUser(deps.Tokens)
	requireScanner := middleware.RequireScannerToken(deps.Tokens)

	api := app.Group("/api")

	// Scanner OTP flow
	otp := api.Group("/otp")
	otp.Post("/send", otpHandler.SendOTP)
	otp.Post("/verify", otpHandler.VerifyOTP)

	// Profile release, gated by the scanner access token
	api.Get("/profile/:userId", requireScanner, medicalHandler.GetGatedProfile)

	// Account flows
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/complete-registration", authHandler.CompleteRegistration)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/verify-reset-otp", authHandler.VerifyResetOTP)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Medical profile CRUD for account holders
	medical := api.Group("/medical", requireUser)
	medical.Post("/", medicalHandler.CreateProfile)
	medical.Get("/:userId", medicalHandler.GetProfile)
	medical.Put("/:userId", medicalHandler.UpdateProfile)

	// QR artifact + the scanned profile page
	qr := api.Group("/qr")
	qr.Post("/", requireUser, qrHandler.CreateQRCode)
	qr.Get("/profile/:userId", requireScanner, qrHandler.ProfilePage)
	qr.Get("/:userId", qrHandler.GetQRCode)

	// Emergency alert, independent of the OTP flow
	api.Post("/alert/send", alertHandler.SendAlert)

	// Recommendations
	api.Get("/recommendations/:userId", requireUser, recommendationHandler.GetRecommendations)

	// Contact & feedback forms
	api.Post("/contact", contactHandler.SubmitContact)
	api.Post("/feedback", contactHandler.SubmitFeedback)
}
