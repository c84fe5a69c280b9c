package storage

import (
	"errors"
	"time"

	"github.com/elderlycare/elderlycare-backend/internal/models"
)

var storeInstance Store

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// User operations
	CreateUser(user *models.User) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(userID string) (*models.User, error)
	UpdateUser(user *models.User) error

	// Medical profile operations
	CreateProfile(profile *models.MedicalProfile) (*models.MedicalProfile, error)
	GetLatestProfileByUser(userID string) (*models.MedicalProfile, error)
	UpdateProfile(profile *models.MedicalProfile) error

	// OTP operations
	CreateOTP(otp *models.OTP) (*models.OTP, error)
	GetLatestOTP(phone, purpose string) (*models.OTP, error)
	// ConsumeOTP atomically deletes the record matching phone+code+purpose
	// that is still unexpired at now, and reports whether a row was removed.
	// Exactly one concurrent caller can observe true for a given record.
	ConsumeOTP(phone, code, purpose string, now time.Time) (bool, error)
	DeleteOTP(id uint) error
	DeleteOTPsForPhone(phone, purpose string) error
	DeleteExpiredOTPs() error

	// QR code operations
	CreateQRCode(qr *models.QRCode) (*models.QRCode, error)
	GetLatestQRCodeByUser(userID string) (*models.QRCode, error)

	// Contact & feedback operations
	CreateContact(contact *models.Contact) (*models.Contact, error)
	CreateFeedback(feedback *models.Feedback) (*models.Feedback, error)

	// Recommendation cache operations
	GetCachedRecommendation(cacheKey string, maxAge time.Duration) (*models.RecommendationCache, error)
	PutCachedRecommendation(entry *models.RecommendationCache) error
	DeleteExpiredRecommendations(maxAge time.Duration) error
}
