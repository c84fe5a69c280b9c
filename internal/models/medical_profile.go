package models

import (
	"time"

	"gorm.io/gorm"
)

// MedicalProfile holds the full medical record for a user.
// Exactly one profile is authoritative per user at a time; lookups take the
// most recently created row when duplicates exist.
type MedicalProfile struct {
	gorm.Model
	UserID string `json:"user_id" gorm:"not null;index"`

	// Demographics
	Name           string    `json:"name" gorm:"not null"`
	DOB            time.Time `json:"dob"`
	Gender         string    `json:"gender"`      // "male", "female", "other"
	BloodGroup     string    `json:"blood_group"` // "A+", "O-", ...
	Height         float64   `json:"height"`      // cm
	Weight         float64   `json:"weight"`      // kg
	DietPreference string    `json:"diet_preference"`

	// Contact
	Phone            string `json:"phone" gorm:"not null"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`

	// Clinical
	MedicalHistory      []string `json:"medical_history" gorm:"serializer:json"`
	MedicalHistoryOther string   `json:"medical_history_other"`
	Allergies           []string `json:"allergies" gorm:"serializer:json"`
	AllergiesOther      string   `json:"allergies_other"`
	Medications         []string `json:"medications" gorm:"serializer:json"`
	MedicationsOther    string   `json:"medications_other"`
	CurrentSymptoms     []string `json:"current_symptoms" gorm:"serializer:json"`
	CurrentSymptomsOther string  `json:"current_symptoms_other"`

	// Insurance
	HasInsurance      bool   `json:"has_insurance" gorm:"default:false"`
	InsuranceProvider string `json:"insurance_provider"`
	PolicyNumber      string `json:"policy_number"`

	// Derived QR artifact (data URL) and the stable profile URL it encodes
	QRCodeImage string `json:"qr_code_image"`
	ProfileURL  string `json:"profile_url"`
}

// MedicalProfileUpdate carries a partial update; only non-nil fields overwrite
type MedicalProfileUpdate struct {
	Name             *string    `json:"name"`
	DOB              *time.Time `json:"dob"`
	Gender           *string    `json:"gender"`
	BloodGroup       *string    `json:"blood_group"`
	Height           *float64   `json:"height"`
	HeightUnit       *string    `json:"height_unit"` // "cm" (default) or "inches"
	Weight           *float64   `json:"weight"`
	DietPreference   *string    `json:"diet_preference"`
	Phone            *string    `json:"phone"`
	Address          *string    `json:"address"`
	EmergencyContact *string    `json:"emergency_contact"`
	EmergencyPhone   *string    `json:"emergency_phone"`
	MedicalHistory   *[]string  `json:"medical_history"`
	Allergies        *[]string  `json:"allergies"`
	Medications      *[]string  `json:"medications"`
	CurrentSymptoms  *[]string  `json:"current_symptoms"`
	HasInsurance     *bool      `json:"has_insurance"`
	InsuranceProvider *string   `json:"insurance_provider"`
	PolicyNumber     *string    `json:"policy_number"`
}

// Apply merges the update into the profile; only supplied fields overwrite
func (u *MedicalProfileUpdate) Apply(p *MedicalProfile) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.DOB != nil {
		p.DOB = *u.DOB
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.BloodGroup != nil {
		p.BloodGroup = *u.BloodGroup
	}
	if u.Height != nil {
		h := *u.Height
		if u.HeightUnit != nil && *u.HeightUnit == "inches" {
			h = h * 2.54
		}
		p.Height = h
	}
	if u.Weight != nil {
		p.Weight = *u.Weight
	}
	if u.DietPreference != nil {
		p.DietPreference = *u.DietPreference
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Address != nil {
		p.Address = *u.Address
	}
	if u.EmergencyContact != nil {
		p.EmergencyContact = *u.EmergencyContact
	}
	if u.EmergencyPhone != nil {
		p.EmergencyPhone = *u.EmergencyPhone
	}
	if u.MedicalHistory != nil {
		p.MedicalHistory = *u.MedicalHistory
	}
	if u.Allergies != nil {
		p.Allergies = *u.Allergies
	}
	if u.Medications != nil {
		p.Medications = *u.Medications
	}
	if u.CurrentSymptoms != nil {
		p.CurrentSymptoms = *u.CurrentSymptoms
	}
	if u.HasInsurance != nil {
		p.HasInsurance = *u.HasInsurance
	}
	if u.InsuranceProvider != nil {
		p.InsuranceProvider = *u.InsuranceProvider
	}
	if u.PolicyNumber != nil {
		p.PolicyNumber = *u.PolicyNumber
	}
}
