package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elderlycare/elderlycare-backend/internal/models"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
)

// mockDispatcher records sent messages and can be told to fail
type mockDispatcher struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	to   string
	body string
}

func (m *mockDispatcher) SendSMS(to, body string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, sentMessage{to: to, body: body})
	return "SM0001", nil
}

func TestSendScannerOTP(t *testing.T) {
	store := storage.NewMemoryStore()
	dispatcher := &mockDispatcher{}
	svc := NewOTPService(store, dispatcher)

	require.NoError(t, svc.SendScannerOTP("98765 43210"))

	otp, err := store.GetLatestOTP("+919876543210", models.OTPPurposeScanner)
	require.NoError(t, err)
	assert.Len(t, otp.Code, 6)
	assert.WithinDuration(t, otp.CreatedAt.Add(OTPValidity), otp.ExpiresAt, time.Second)

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "+919876543210", dispatcher.sent[0].to)
	assert.Equal(t, "Your OTP is: "+otp.Code, dispatcher.sent[0].body)
}

func TestSendScannerOTPDispatchFailure(t *testing.T) {
	store := storage.NewMemoryStore()
	dispatcher := &mockDispatcher{err: errors.New("gateway down")}
	svc := NewOTPService(store, dispatcher)

	err := svc.SendScannerOTP("9876543210")
	require.ErrorIs(t, err, ErrDispatchFailed)

	// The record was persisted before dispatch, so the code exists but was
	// never delivered; the caller retries by requesting a new one.
	_, err = store.GetLatestOTP("+919876543210", models.OTPPurposeScanner)
	assert.NoError(t, err)
}

func TestVerifyLifecycle(t *testing.T) {
	store := storage.NewMemoryStore()
	dispatcher := &mockDispatcher{}
	svc := NewOTPService(store, dispatcher)

	require.NoError(t, svc.SendScannerOTP("9876543210"))
	otp, err := store.GetLatestOTP("+919876543210", models.OTPPurposeScanner)
	require.NoError(t, err)

	// Wrong code fails with a mismatch and leaves the record in place
	err = svc.VerifyScannerOTP("9876543210", "000000")
	require.ErrorIs(t, err, ErrOTPMismatch)
	_, err = store.GetLatestOTP("+919876543210", models.OTPPurposeScanner)
	require.NoError(t, err)

	// Correct code succeeds and consumes the record
	require.NoError(t, svc.VerifyScannerOTP("9876543210", otp.Code))

	// Second use of the same code finds nothing
	err = svc.VerifyScannerOTP("9876543210", otp.Code)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyNoRecord(t *testing.T) {
	svc := NewOTPService(storage.NewMemoryStore(), &mockDispatcher{})

	err := svc.VerifyScannerOTP("9876543210", "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyExpired(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, &mockDispatcher{})

	require.NoError(t, svc.SendScannerOTP("9876543210"))
	otp, err := store.GetLatestOTP("+919876543210", models.OTPPurposeScanner)
	require.NoError(t, err)

	// Age the record past its validity window
	otp.ExpiresAt = time.Now().Add(-time.Minute)

	err = svc.VerifyScannerOTP("9876543210", otp.Code)
	require.ErrorIs(t, err, ErrOTPExpired)

	// Expiry detection deleted the record
	err = svc.VerifyScannerOTP("9876543210", otp.Code)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestLatestIssuedWins(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, &mockDispatcher{})

	first, err := svc.Issue("+919876543210", models.OTPPurposeScanner)
	require.NoError(t, err)
	second, err := svc.Issue("+919876543210", models.OTPPurposeScanner)
	require.NoError(t, err)

	if first.Code != second.Code {
		// Stale codes were cleared on reissue, so the old code no longer matches
		err = svc.Verify("+919876543210", first.Code, models.OTPPurposeScanner)
		assert.ErrorIs(t, err, ErrOTPMismatch)
	}

	assert.NoError(t, svc.Verify("+919876543210", second.Code, models.OTPPurposeScanner))
}

func TestIssueClearsStaleRecords(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, &mockDispatcher{})

	_, err := svc.Issue("+919876543210", models.OTPPurposeScanner)
	require.NoError(t, err)
	_, err = svc.Issue("+919876543210", models.OTPPurposeScanner)
	require.NoError(t, err)

	// Only the newest record may remain
	latest, err := store.GetLatestOTP("+919876543210", models.OTPPurposeScanner)
	require.NoError(t, err)
	require.NoError(t, store.DeleteOTP(latest.ID))

	_, err = store.GetLatestOTP("+919876543210", models.OTPPurposeScanner)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
