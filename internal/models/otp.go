package models

import (
	"time"

	"gorm.io/gorm"
)

// OTP purposes
const (
	OTPPurposeScanner       = "scanner"
	OTPPurposeRegistration  = "registration"
	OTPPurposePasswordReset = "password_reset"
)

type OTP struct {
	gorm.Model
	Phone     string    `json:"phone" gorm:"not null;index"` // canonical phone, or email for registration/reset OTPs
	Code      string    `json:"-" gorm:"not null"`
	Purpose   string    `json:"purpose" gorm:"not null;index"` // "scanner", "registration", "password_reset"
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
}
