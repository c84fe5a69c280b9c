package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/elderlycare/elderlycare-backend/internal/models"
	"github.com/elderlycare/elderlycare-backend/internal/services"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
)

// ContactHandler handles contact and feedback form submissions
type ContactHandler struct {
	store storage.Store
	email services.EmailSender
}

// NewContactHandler creates a new contact handler
func NewContactHandler(store storage.Store, email services.EmailSender) *ContactHandler {
	return &ContactHandler{store: store, email: email}
}

// SubmitContact saves a contact message and sends a confirmation email
func (h *ContactHandler) SubmitContact(c *fiber.Ctx) error {
	var contact models.Contact
	if err := c.BodyParser(&contact); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if problems := contact.Validate(); problems != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"fields":  problems,
		})
	}

	if _, err := h.store.CreateContact(&contact); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An unexpected error occurred. Please try again later.",
		})
	}

	// Confirmation mail is best effort; the submission is already saved
	if err := services.SendContactConfirmation(h.email, contact.Name, contact.Email, contact.Message); err != nil {
		log.Printf("Failed to send contact confirmation to %s: %v", contact.Email, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Thank you! Your message has been sent and a confirmation email is on its way.",
	})
}

// SubmitFeedback saves a feedback entry
func (h *ContactHandler) SubmitFeedback(c *fiber.Ctx) error {
	var feedback models.Feedback
	if err := c.BodyParser(&feedback); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if problems := feedback.Validate(); problems != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"fields":  problems,
		})
	}

	if _, err := h.store.CreateFeedback(&feedback); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An unexpected error occurred. Please try again later.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Thank you for your feedback!",
	})
}
