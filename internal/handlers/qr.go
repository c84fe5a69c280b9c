package handlers

import (
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/elderlycare/elderlycare-backend/internal/models"
	"github.com/elderlycare/elderlycare-backend/internal/services"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
)

// QRHandler handles QR artifact generation and the scanned profile page
type QRHandler struct {
	store           storage.Store
	qrs             *services.QRService
	recommendations *services.RecommendationService
}

// NewQRHandler creates a new QR handler
func NewQRHandler(store storage.Store, qrs *services.QRService, recommendations *services.RecommendationService) *QRHandler {
	return &QRHandler{store: store, qrs: qrs, recommendations: recommendations}
}

// CreateQRCode regenerates the QR artifact for a user's profile
func (h *QRHandler) CreateQRCode(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
	}

	if err := c.BodyParser(&req); err != nil || req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	qr, err := h.qrs.GenerateForUser(req.UserID)
	if err != nil {
		if err == storage.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Medical profile not found. Please create a medical profile first.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Error creating QR code",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"qr_code":     qr,
		"profile_url": qr.ProfileURL,
		"message":     "QR code generated successfully!",
	})
}

// GetQRCode returns the latest QR artifact for a user
func (h *QRHandler) GetQRCode(c *fiber.Ctx) error {
	userID := c.Params("userId")

	qr, err := h.store.GetLatestQRCodeByUser(userID)
	if err != nil {
		if err == storage.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "QR code not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Error fetching QR code",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"qr_code": qr,
	})
}

var profilePageTemplate = template.Must(template.New("profile").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Medical Profile - {{.Profile.Name}}</title>
<style>
body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
.section { margin-bottom: 30px; border-bottom: 1px solid #eee; padding-bottom: 20px; }
h1, h2 { color: #0066ff; }
.recommendations { background-color: #f8f9fa; padding: 15px; border-radius: 5px; white-space: pre-wrap; }
</style>
</head>
<body>
<div class="section">
<h1>Medical Profile</h1>
<h3>Personal Information</h3>
<p><strong>Name:</strong> {{.Profile.Name}}</p>
<p><strong>Date of Birth:</strong> {{.DOB}}</p>
<p><strong>Gender:</strong> {{.Profile.Gender}}</p>
<p><strong>Blood Group:</strong> {{.Profile.BloodGroup}}</p>
<p><strong>Diet Preference:</strong> {{.Profile.DietPreference}}</p>
<p><strong>Height:</strong> {{printf "%.0f" .Profile.Height}} cm</p>
<p><strong>Weight:</strong> {{printf "%.0f" .Profile.Weight}} kg</p>
<h3>Contact Information</h3>
<p><strong>Phone:</strong> {{.Profile.Phone}}</p>
<p><strong>Address:</strong> {{.Profile.Address}}</p>
<p><strong>Emergency Contact:</strong> {{.Profile.EmergencyContact}} ({{.Profile.EmergencyPhone}})</p>
<h3>Medical Information</h3>
<p><strong>Medical History:</strong> {{.MedicalHistory}}</p>
<p><strong>Allergies:</strong> {{.Allergies}}</p>
<p><strong>Current Medications:</strong> {{.Medications}}</p>
<p><strong>Current Symptoms:</strong> {{.CurrentSymptoms}}</p>
<h3>Insurance Information</h3>
<p><strong>Has Insurance:</strong> {{if .Profile.HasInsurance}}Yes{{else}}No{{end}}</p>
{{if .Profile.HasInsurance}}<p><strong>Provider:</strong> {{.Profile.InsuranceProvider}}</p>
<p><strong>Policy Number:</strong> {{.Profile.PolicyNumber}}</p>{{end}}
</div>
<div class="section">
<h2>Emergency First Aid Instructions</h2>
<div class="recommendations">{{.FirstAid}}</div>
</div>
</body>
</html>`))

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// ProfilePage renders the HTML profile page a scanner lands on. The route is
// behind the scanner access-token gate; by the time this runs the caller has
// already proven phone control.
func (h *QRHandler) ProfilePage(c *fiber.Ctx) error {
	userID := c.Params("userId")

	profile, err := h.store.GetLatestProfileByUser(userID)
	if err != nil {
		if err == storage.ErrNotFound {
			c.Set("Content-Type", "text/html; charset=utf-8")
			return c.Status(fiber.StatusNotFound).
				SendString("<html><body><h1>Profile Not Found</h1><p>Medical profile not found for this user.</p></body></html>")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching medical profile",
		})
	}

	firstAid, err := h.recommendations.Generate(profile, models.RecommendationFirstAid)
	if err != nil {
		firstAid = "First aid instructions are temporarily unavailable."
	}

	data := struct {
		Profile         *models.MedicalProfile
		DOB             string
		MedicalHistory  string
		Allergies       string
		Medications     string
		CurrentSymptoms string
		FirstAid        string
	}{
		Profile:         profile,
		DOB:             profile.DOB.Format("2006-01-02"),
		MedicalHistory:  orNA(strings.Join(profile.MedicalHistory, ", ")),
		Allergies:       orNA(strings.Join(profile.Allergies, ", ")),
		Medications:     orNA(strings.Join(profile.Medications, ", ")),
		CurrentSymptoms: orNA(strings.Join(profile.CurrentSymptoms, ", ")),
		FirstAid:        firstAid,
	}

	var b strings.Builder
	if err := profilePageTemplate.Execute(&b, data); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render profile page",
		})
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(b.String())
}
