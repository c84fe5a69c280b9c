package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/elderlycare/elderlycare-backend/internal/models"
)

// DatabaseStore implements Store on top of PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// User operations

func (s *DatabaseStore) CreateUser(user *models.User) (*models.User, error) {
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *DatabaseStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := s.db.Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStore) UpdateUser(user *models.User) error {
	return s.db.Save(user).Error
}

// Medical profile operations

func (s *DatabaseStore) CreateProfile(profile *models.MedicalProfile) (*models.MedicalProfile, error) {
	if err := s.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *DatabaseStore) GetLatestProfileByUser(userID string) (*models.MedicalProfile, error) {
	var profile models.MedicalProfile
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *DatabaseStore) UpdateProfile(profile *models.MedicalProfile) error {
	return s.db.Save(profile).Error
}

// OTP operations

func (s *DatabaseStore) CreateOTP(otp *models.OTP) (*models.OTP, error) {
	if err := s.db.Create(otp).Error; err != nil {
		return nil, err
	}
	return otp, nil
}

func (s *DatabaseStore) GetLatestOTP(phone, purpose string) (*models.OTP, error) {
	var otp models.OTP
	err := s.db.Where("phone = ? AND purpose = ?", phone, purpose).
		Order("created_at DESC").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// ConsumeOTP is a single conditional delete so concurrent verifications for
// the same record cannot both succeed.
func (s *DatabaseStore) ConsumeOTP(phone, code, purpose string, now time.Time) (bool, error) {
	res := s.db.Unscoped().
		Where("phone = ? AND code = ? AND purpose = ? AND expires_at > ?", phone, code, purpose, now).
		Delete(&models.OTP{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *DatabaseStore) DeleteOTP(id uint) error {
	return s.db.Unscoped().Delete(&models.OTP{}, id).Error
}

func (s *DatabaseStore) DeleteOTPsForPhone(phone, purpose string) error {
	return s.db.Unscoped().
		Where("phone = ? AND purpose = ?", phone, purpose).
		Delete(&models.OTP{}).Error
}

func (s *DatabaseStore) DeleteExpiredOTPs() error {
	return s.db.Unscoped().
		Where("expires_at <= ?", time.Now()).
		Delete(&models.OTP{}).Error
}

// QR code operations

func (s *DatabaseStore) CreateQRCode(qr *models.QRCode) (*models.QRCode, error) {
	if err := s.db.Create(qr).Error; err != nil {
		return nil, err
	}
	return qr, nil
}

func (s *DatabaseStore) GetLatestQRCodeByUser(userID string) (*models.QRCode, error) {
	var qr models.QRCode
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&qr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

// Contact & feedback operations

func (s *DatabaseStore) CreateContact(contact *models.Contact) (*models.Contact, error) {
	if err := s.db.Create(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *DatabaseStore) CreateFeedback(feedback *models.Feedback) (*models.Feedback, error) {
	if err := s.db.Create(feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

// Recommendation cache operations

func (s *DatabaseStore) GetCachedRecommendation(cacheKey string, maxAge time.Duration) (*models.RecommendationCache, error) {
	var entry models.RecommendationCache
	err := s.db.Where("cache_key = ? AND created_at > ?", cacheKey, time.Now().Add(-maxAge)).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *DatabaseStore) PutCachedRecommendation(entry *models.RecommendationCache) error {
	// Replace any stale row for the same key
	s.db.Unscoped().Where("cache_key = ?", entry.CacheKey).Delete(&models.RecommendationCache{})
	return s.db.Create(entry).Error
}

func (s *DatabaseStore) DeleteExpiredRecommendations(maxAge time.Duration) error {
	return s.db.Unscoped().
		Where("created_at <= ?", time.Now().Add(-maxAge)).
		Delete(&models.RecommendationCache{}).Error
}
