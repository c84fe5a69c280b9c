package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/elderlycare/elderlycare-backend/internal/models"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
)

// MedicalHandler handles medical profile create/read/update
type MedicalHandler struct {
	store storage.Store
}

// NewMedicalHandler creates a new medical profile handler
func NewMedicalHandler(store storage.Store) *MedicalHandler {
	return &MedicalHandler{store: store}
}

type createProfileRequest struct {
	Name                 string   `json:"name"`
	DOB                  string   `json:"dob"` // YYYY-MM-DD
	Gender               string   `json:"gender"`
	BloodGroup           string   `json:"blood_group"`
	Height               float64  `json:"height"`
	HeightUnit           string   `json:"height_unit"` // "cm" (default) or "inches"
	Weight               float64  `json:"weight"`
	DietPreference       string   `json:"diet_preference"`
	Phone                string   `json:"phone"`
	Address              string   `json:"address"`
	EmergencyContact     string   `json:"emergency_contact"`
	EmergencyPhone       string   `json:"emergency_phone"`
	MedicalHistory       []string `json:"medical_history"`
	MedicalHistoryOther  string   `json:"medical_history_other"`
	Allergies            []string `json:"allergies"`
	AllergiesOther       string   `json:"allergies_other"`
	Medications          []string `json:"medications"`
	MedicationsOther     string   `json:"medications_other"`
	CurrentSymptoms      []string `json:"current_symptoms"`
	CurrentSymptomsOther string   `json:"current_symptoms_other"`
	HasInsurance         bool     `json:"has_insurance"`
	InsuranceProvider    string   `json:"insurance_provider"`
	PolicyNumber         string   `json:"policy_number"`
}

func (r *createProfileRequest) validate() map[string]string {
	problems := make(map[string]string)
	if r.Name == "" {
		problems["name"] = "Name is required"
	}
	if r.DOB == "" {
		problems["dob"] = "Date of birth is required"
	} else if _, err := time.Parse("2006-01-02", r.DOB); err != nil {
		problems["dob"] = "Date of birth must be YYYY-MM-DD"
	}
	if r.Phone == "" {
		problems["phone"] = "Phone is required"
	}
	if r.EmergencyContact == "" {
		problems["emergency_contact"] = "Emergency contact name is required"
	}
	if r.EmergencyPhone == "" {
		problems["emergency_phone"] = "Emergency contact phone is required"
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// CreateProfile creates a medical profile for the authenticated user
func (h *MedicalHandler) CreateProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized: user not logged in",
		})
	}

	var req createProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if problems := req.validate(); problems != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": problems,
		})
	}

	dob, _ := time.Parse("2006-01-02", req.DOB)
	height := req.Height
	if req.HeightUnit == "inches" {
		height = height * 2.54
	}

	profile := &models.MedicalProfile{
		UserID:               userID,
		Name:                 req.Name,
		DOB:                  dob,
		Gender:               req.Gender,
		BloodGroup:           req.BloodGroup,
		Height:               height,
		Weight:               req.Weight,
		DietPreference:       req.DietPreference,
		Phone:                req.Phone,
		Address:              req.Address,
		EmergencyContact:     req.EmergencyContact,
		EmergencyPhone:       req.EmergencyPhone,
		MedicalHistory:       req.MedicalHistory,
		MedicalHistoryOther:  req.MedicalHistoryOther,
		Allergies:            req.Allergies,
		AllergiesOther:       req.AllergiesOther,
		Medications:          req.Medications,
		MedicationsOther:     req.MedicationsOther,
		CurrentSymptoms:      req.CurrentSymptoms,
		CurrentSymptomsOther: req.CurrentSymptomsOther,
		HasInsurance:         req.HasInsurance,
		InsuranceProvider:    req.InsuranceProvider,
		PolicyNumber:         req.PolicyNumber,
	}

	created, err := h.store.CreateProfile(profile)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create medical profile",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Medical profile created successfully",
		"profile": created,
	})
}

// GetProfile returns the latest profile for a user; only the owner or an
// admin may read through this path.
func (h *MedicalHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Params("userId")
	requester, _ := c.Locals("userID").(string)
	role, _ := c.Locals("role").(string)

	if requester != userID && role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Unauthorized access to medical profile",
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

	return c.JSON(profile)
}

// UpdateProfile applies a partial update; only supplied fields overwrite
func (h *MedicalHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Params("userId")
	requester, _ := c.Locals("userID").(string)
	role, _ := c.Locals("role").(string)

	if requester != userID && role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Unauthorized to update this profile",
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

	var update models.MedicalProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	update.Apply(profile)
	if err := h.store.UpdateProfile(profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error updating medical profile",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Medical profile updated successfully",
		"profile": profile,
	})
}

// GetGatedProfile releases the full profile to a scanner holding a valid
// access token from OTP verification.
func (h *MedicalHandler) GetGatedProfile(c *fiber.Ctx) error {
	userID := c.Params("userId")

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

	return c.JSON(profile)
}
