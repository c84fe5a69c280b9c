package services

import (
	"fmt"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender delivers an email. Implemented by EmailService; tests
// substitute a mock.
type EmailSender interface {
	SendEmail(to, subject, plainText, htmlContent string) error
}

// EmailService sends transactional mail via SendGrid
type EmailService struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

// NewEmailService creates a SendGrid-backed email service
func NewEmailService() (*EmailService, error) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromAddr := os.Getenv("SENDGRID_FROM_EMAIL")

	if apiKey == "" || fromAddr == "" {
		return nil, fmt.Errorf("missing SendGrid credentials in environment variables")
	}

	return &EmailService{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: "ElderlyCare Team",
		fromAddr: fromAddr,
	}, nil
}

// SendEmail sends a single email via SendGrid
func (e *EmailService) SendEmail(to, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(e.fromName, e.fromAddr)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	resp, err := e.client.Send(message)
	if err != nil {
		log.Printf("❌ Failed to send email to %s: %v", to, err)
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: sendgrid status %d", ErrDispatchFailed, resp.StatusCode)
	}

	log.Printf("✅ Email sent to %s", to)
	return nil
}

// SendOTPEmail delivers a verification or reset code
func SendOTPEmail(sender EmailSender, to, code, purpose string) error {
	subject := "Verification Code"
	switch purpose {
	case "registration":
		subject = "Verify Your Email"
	case "password_reset":
		subject = "Password Reset OTP"
	}

	plain := fmt.Sprintf("Your verification OTP is: %s", code)
	html := fmt.Sprintf("<p>Your verification OTP is: <strong>%s</strong></p>", code)
	return sender.SendEmail(to, subject, plain, html)
}

// SendContactConfirmation acknowledges a contact-form submission
func SendContactConfirmation(sender EmailSender, name, to, message string) error {
	subject := "Thank you for contacting ElderlyCare"
	plain := fmt.Sprintf("Hello %s,\n\nWe've received your message and our team will get back to you within 24 hours.\n\nYour message:\n%s\n\nBest regards,\nThe ElderlyCare Team", name, message)
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hello %s,</h2>
  <p>We've received your message and our team will get back to you within 24 hours.</p>
  <div style="background-color: #f8f9fa; padding: 15px; border-left: 4px solid #3498db; margin: 20px 0;">
    <p><strong>Your Message:</strong></p>
    <p>%s</p>
  </div>
  <p>If you didn't initiate this request, please ignore this email.</p>
  <p>Best regards,<br><strong>The ElderlyCare Team</strong></p>
</div>`, name, message)
	return sender.SendEmail(to, subject, plain, html)
}
