package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/elderlycare/elderlycare-backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and local development
type MemoryStore struct {
	users    map[string]*models.User
	profiles map[uint]*models.MedicalProfile
	otps     map[uint]*models.OTP
	qrcodes  map[uint]*models.QRCode
	contacts map[uint]*models.Contact
	feedback map[uint]*models.Feedback
	cache    map[string]*models.RecommendationCache

	// Mutexes for thread safety
	userMu    sync.RWMutex
	profileMu sync.RWMutex
	otpMu     sync.Mutex
	qrMu      sync.RWMutex
	contactMu sync.Mutex
	cacheMu   sync.RWMutex

	// Counters for ID generation
	userCounter    int
	profileCounter uint
	otpCounter     uint
	qrCounter      uint
	contactCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*models.User),
		profiles: make(map[uint]*models.MedicalProfile),
		otps:     make(map[uint]*models.OTP),
		qrcodes:  make(map[uint]*models.QRCode),
		contacts: make(map[uint]*models.Contact),
		feedback: make(map[uint]*models.Feedback),
		cache:    make(map[string]*models.RecommendationCache),
	}
}

// User operations

func (m *MemoryStore) CreateUser(user *models.User) (*models.User, error) {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("user already exists")
		}
	}

	m.userCounter++
	user.ID = uint(m.userCounter)
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("USR%05d", m.userCounter)
	}
	if user.Role == "" {
		user.Role = "user"
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	m.users[user.UserID] = user
	return user, nil
}

func (m *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetUserByID(userID string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	user, exists := m.users[userID]
	if !exists {
		return nil, ErrNotFound
	}
	return user, nil
}

func (m *MemoryStore) UpdateUser(user *models.User) error {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	if _, exists := m.users[user.UserID]; !exists {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

// Medical profile operations

func (m *MemoryStore) CreateProfile(profile *models.MedicalProfile) (*models.MedicalProfile, error) {
	m.profileMu.Lock()
	defer m.profileMu.Unlock()

	m.profileCounter++
	profile.ID = m.profileCounter
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	m.profiles[profile.ID] = profile
	return profile, nil
}

func (m *MemoryStore) GetLatestProfileByUser(userID string) (*models.MedicalProfile, error) {
	m.profileMu.RLock()
	defer m.profileMu.RUnlock()

	var latest *models.MedicalProfile
	for _, p := range m.profiles {
		if p.UserID != userID {
			continue
		}
		if latest == nil || p.ID > latest.ID {
			latest = p
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (m *MemoryStore) UpdateProfile(profile *models.MedicalProfile) error {
	m.profileMu.Lock()
	defer m.profileMu.Unlock()

	if _, exists := m.profiles[profile.ID]; !exists {
		return ErrNotFound
	}
	profile.UpdatedAt = time.Now()
	m.profiles[profile.ID] = profile
	return nil
}

// OTP operations

func (m *MemoryStore) CreateOTP(otp *models.OTP) (*models.OTP, error) {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	m.otpCounter++
	otp.ID = m.otpCounter
	otp.CreatedAt = time.Now()
	otp.UpdatedAt = otp.CreatedAt

	m.otps[otp.ID] = otp
	return otp, nil
}

func (m *MemoryStore) GetLatestOTP(phone, purpose string) (*models.OTP, error) {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	var latest *models.OTP
	for _, otp := range m.otps {
		if otp.Phone != phone || otp.Purpose != purpose {
			continue
		}
		// IDs are monotonic, so highest ID is the most recently issued
		if latest == nil || otp.ID > latest.ID {
			latest = otp
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (m *MemoryStore) ConsumeOTP(phone, code, purpose string, now time.Time) (bool, error) {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	for id, otp := range m.otps {
		if otp.Phone == phone && otp.Code == code && otp.Purpose == purpose && otp.ExpiresAt.After(now) {
			delete(m.otps, id)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) DeleteOTP(id uint) error {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	delete(m.otps, id)
	return nil
}

func (m *MemoryStore) DeleteOTPsForPhone(phone, purpose string) error {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	for id, otp := range m.otps {
		if otp.Phone == phone && otp.Purpose == purpose {
			delete(m.otps, id)
		}
	}
	return nil
}

func (m *MemoryStore) DeleteExpiredOTPs() error {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	now := time.Now()
	for id, otp := range m.otps {
		if !otp.ExpiresAt.After(now) {
			delete(m.otps, id)
		}
	}
	return nil
}

// QR code operations

func (m *MemoryStore) CreateQRCode(qr *models.QRCode) (*models.QRCode, error) {
	m.qrMu.Lock()
	defer m.qrMu.Unlock()

	m.qrCounter++
	qr.ID = m.qrCounter
	qr.CreatedAt = time.Now()
	qr.UpdatedAt = qr.CreatedAt

	m.qrcodes[qr.ID] = qr
	return qr, nil
}

func (m *MemoryStore) GetLatestQRCodeByUser(userID string) (*models.QRCode, error) {
	m.qrMu.RLock()
	defer m.qrMu.RUnlock()

	var latest *models.QRCode
	for _, qr := range m.qrcodes {
		if qr.UserID != userID {
			continue
		}
		if latest == nil || qr.ID > latest.ID {
			latest = qr
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

// Contact & feedback operations

func (m *MemoryStore) CreateContact(contact *models.Contact) (*models.Contact, error) {
	m.contactMu.Lock()
	defer m.contactMu.Unlock()

	m.contactCounter++
	contact.ID = m.contactCounter
	contact.CreatedAt = time.Now()

	m.contacts[contact.ID] = contact
	return contact, nil
}

func (m *MemoryStore) CreateFeedback(feedback *models.Feedback) (*models.Feedback, error) {
	m.contactMu.Lock()
	defer m.contactMu.Unlock()

	m.contactCounter++
	feedback.ID = m.contactCounter
	feedback.CreatedAt = time.Now()

	m.feedback[feedback.ID] = feedback
	return feedback, nil
}

// Recommendation cache operations

func (m *MemoryStore) GetCachedRecommendation(cacheKey string, maxAge time.Duration) (*models.RecommendationCache, error) {
	m.cacheMu.RLock()
	defer m.cacheMu.RUnlock()

	entry, exists := m.cache[cacheKey]
	if !exists || time.Since(entry.CreatedAt) > maxAge {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (m *MemoryStore) PutCachedRecommendation(entry *models.RecommendationCache) error {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()

	entry.CreatedAt = time.Now()
	m.cache[entry.CacheKey] = entry
	return nil
}

func (m *MemoryStore) DeleteExpiredRecommendations(maxAge time.Duration) error {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()

	for key, entry := range m.cache {
		if time.Since(entry.CreatedAt) > maxAge {
			delete(m.cache, key)
		}
	}
	return nil
}
