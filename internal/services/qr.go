package services

import (
	"encoding/base64"
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/elderlycare/elderlycare-backend/internal/models"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
)

// QRService produces the QR artifact encoding a profile's stable URL
type QRService struct {
	store storage.Store
}

func NewQRService(store storage.Store) *QRService {
	return &QRService{store: store}
}

// ProfileURL returns the stable URL the QR code points at
func ProfileURL(userID string) string {
	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return fmt.Sprintf("%s/api/qr/profile/%s", base, userID)
}

// GenerateForUser (re)computes the QR artifact for the user's latest profile,
// stores it back onto the profile, and records a QRCode row. Fails with
// storage.ErrNotFound when the user has no profile yet.
func (s *QRService) GenerateForUser(userID string) (*models.QRCode, error) {
	profile, err := s.store.GetLatestProfileByUser(userID)
	if err != nil {
		return nil, err
	}

	profileURL := ProfileURL(userID)

	png, err := qrcode.Encode(profileURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	profile.QRCodeImage = dataURL
	profile.ProfileURL = profileURL
	if err := s.store.UpdateProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to store QR artifact on profile: %w", err)
	}

	qr := &models.QRCode{
		UserID:     userID,
		Data:       dataURL,
		ProfileURL: profileURL,
	}
	return s.store.CreateQRCode(qr)
}
