package services

import (
	"fmt"
	"time"

	"github.com/elderlycare/elderlycare-backend/internal/models"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
	"github.com/elderlycare/elderlycare-backend/internal/utils"
)

// OTPValidity is how long an issued code can be verified
const OTPValidity = 15 * time.Minute

type OTPService struct {
	store      storage.Store
	dispatcher Dispatcher
}

func NewOTPService(store storage.Store, dispatcher Dispatcher) *OTPService {
	return &OTPService{store: store, dispatcher: dispatcher}
}

// Issue generates a fresh 6-digit code for the identifier and persists it
// with a 15-minute expiry. Older codes for the same identifier and purpose
// are removed first, so the new code is the only live one.
func (s *OTPService) Issue(identifier, purpose string) (*models.OTP, error) {
	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	if err := s.store.DeleteOTPsForPhone(identifier, purpose); err != nil {
		return nil, fmt.Errorf("failed to clear stale OTPs: %w", err)
	}

	otp := &models.OTP{
		Phone:     identifier,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(OTPValidity),
	}

	return s.store.CreateOTP(otp)
}

// SendScannerOTP issues an OTP for the scanner's phone and dispatches it by
// SMS. The record is persisted before dispatch, so a gateway failure leaves a
// valid but undelivered code; the caller retries by requesting a new one.
// The plaintext code is never returned to the caller.
func (s *OTPService) SendScannerOTP(rawPhone string) error {
	phone := utils.NormalizePhone(rawPhone)

	otp, err := s.Issue(phone, models.OTPPurposeScanner)
	if err != nil {
		return err
	}

	if _, err := s.dispatcher.SendSMS(phone, fmt.Sprintf("Your OTP is: %s", otp.Code)); err != nil {
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	return nil
}

// Verify checks a submitted code against the most recently issued record for
// the identifier. On success the record is consumed atomically; on detected
// expiry it is deleted. A mismatch leaves the record in place so the caller
// may retry until expiry.
func (s *OTPService) Verify(identifier, code, purpose string) error {
	otp, err := s.store.GetLatestOTP(identifier, purpose)
	if err != nil {
		if err == storage.ErrNotFound {
			return ErrOTPNotFound
		}
		return err
	}

	if otp.Code != code {
		return ErrOTPMismatch
	}

	now := time.Now()
	if now.After(otp.ExpiresAt) {
		if err := s.store.DeleteOTP(otp.ID); err != nil {
			return err
		}
		return ErrOTPExpired
	}

	consumed, err := s.store.ConsumeOTP(identifier, code, purpose, now)
	if err != nil {
		return err
	}
	if !consumed {
		// A concurrent verification won the race
		return ErrOTPNotFound
	}

	return nil
}

// VerifyScannerOTP normalizes the raw phone the same way issuance does and
// verifies the submitted code against it.
func (s *OTPService) VerifyScannerOTP(rawPhone, code string) error {
	return s.Verify(utils.NormalizePhone(rawPhone), code, models.OTPPurposeScanner)
}
