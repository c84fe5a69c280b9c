package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elderlycare/elderlycare-backend/internal/models"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
)

// mockEmailSender records outgoing mail
type mockEmailSender struct {
	sent []string // recipients
}

func (m *mockEmailSender) SendEmail(to, subject, plainText, htmlContent string) error {
	m.sent = append(m.sent, to)
	return nil
}

func newTestAuthService(store storage.Store) (*AuthService, *mockEmailSender) {
	email := &mockEmailSender{}
	otps := NewOTPService(store, &mockDispatcher{})
	tokens := NewTokenServiceWithSecret(testSecret)
	return NewAuthService(store, otps, tokens, email), email
}

func TestRegistrationFlow(t *testing.T) {
	store := storage.NewMemoryStore()
	auth, email := newTestAuthService(store)

	require.NoError(t, auth.Register("asha@example.com"))
	require.Len(t, email.sent, 1)
	assert.Equal(t, "asha@example.com", email.sent[0])

	// The emailed code lives in the persisted OTP store
	otp, err := store.GetLatestOTP("asha@example.com", models.OTPPurposeRegistration)
	require.NoError(t, err)

	proof, err := auth.VerifyRegistrationOTP("asha@example.com", otp.Code)
	require.NoError(t, err)

	user, session, err := auth.CompleteRegistration(proof, "Asha", "s3cret-password")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.NotEmpty(t, session)

	// The account logs in with the chosen password
	_, token, err := auth.Login("asha@example.com", "s3cret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegisterExistingUser(t *testing.T) {
	store := storage.NewMemoryStore()
	auth, _ := newTestAuthService(store)

	_, err := store.CreateUser(&models.User{Name: "Asha", Email: "asha@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	assert.ErrorIs(t, auth.Register("asha@example.com"), ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	store := storage.NewMemoryStore()
	auth, _ := newTestAuthService(store)

	require.NoError(t, auth.Register("asha@example.com"))
	otp, err := store.GetLatestOTP("asha@example.com", models.OTPPurposeRegistration)
	require.NoError(t, err)
	proof, err := auth.VerifyRegistrationOTP("asha@example.com", otp.Code)
	require.NoError(t, err)
	_, _, err = auth.CompleteRegistration(proof, "Asha", "right-password")
	require.NoError(t, err)

	_, _, err = auth.Login("asha@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	store := storage.NewMemoryStore()
	auth, _ := newTestAuthService(store)

	require.NoError(t, auth.Register("asha@example.com"))
	otp, err := store.GetLatestOTP("asha@example.com", models.OTPPurposeRegistration)
	require.NoError(t, err)
	proof, err := auth.VerifyRegistrationOTP("asha@example.com", otp.Code)
	require.NoError(t, err)
	_, _, err = auth.CompleteRegistration(proof, "Asha", "old-password")
	require.NoError(t, err)

	require.NoError(t, auth.ForgotPassword("asha@example.com"))
	resetOTP, err := store.GetLatestOTP("asha@example.com", models.OTPPurposePasswordReset)
	require.NoError(t, err)

	resetToken, err := auth.VerifyResetOTP("asha@example.com", resetOTP.Code)
	require.NoError(t, err)
	require.NoError(t, auth.ResetPassword(resetToken, "new-password"))

	_, _, err = auth.Login("asha@example.com", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = auth.Login("asha@example.com", "new-password")
	assert.NoError(t, err)
}

func TestForgotPasswordUnknownUser(t *testing.T) {
	auth, _ := newTestAuthService(storage.NewMemoryStore())
	assert.ErrorIs(t, auth.ForgotPassword("nobody@example.com"), ErrUserNotFound)
}

func TestCompleteRegistrationRejectsBadToken(t *testing.T) {
	auth, _ := newTestAuthService(storage.NewMemoryStore())

	_, _, err := auth.CompleteRegistration("not-a-token", "Asha", "password")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
