package models

import (
	"gorm.io/gorm"
)

// QRCode stores a generated QR artifact for a user's profile URL
type QRCode struct {
	gorm.Model
	UserID     string `json:"user_id" gorm:"not null;index"`
	Data       string `json:"data"` // base64 PNG data URL
	ProfileURL string `json:"profile_url"`
}
