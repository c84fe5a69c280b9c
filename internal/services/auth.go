package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/elderlycare/elderlycare-backend/internal/models"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService handles registration, login, and password reset. Every email
// OTP goes through the persisted OTP store; there is no process-local state,
// so the flows survive restarts and multiple instances.
type AuthService struct {
	store  storage.Store
	otps   *OTPService
	tokens *TokenService
	email  EmailSender
}

func NewAuthService(store storage.Store, otps *OTPService, tokens *TokenService, email EmailSender) *AuthService {
	return &AuthService{store: store, otps: otps, tokens: tokens, email: email}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register starts a registration by emailing a verification OTP. The account
// itself is only created by CompleteRegistration.
func (s *AuthService) Register(email string) error {
	email = normalizeEmail(email)

	if _, err := s.store.GetUserByEmail(email); err == nil {
		return ErrUserExists
	} else if err != storage.ErrNotFound {
		return err
	}

	otp, err := s.otps.Issue(email, models.OTPPurposeRegistration)
	if err != nil {
		return err
	}

	return SendOTPEmail(s.email, email, otp.Code, models.OTPPurposeRegistration)
}

// VerifyRegistrationOTP checks the emailed code and returns a short-lived
// proof token required by CompleteRegistration.
func (s *AuthService) VerifyRegistrationOTP(email, code string) (string, error) {
	email = normalizeEmail(email)

	if err := s.otps.Verify(email, code, models.OTPPurposeRegistration); err != nil {
		return "", err
	}

	return s.tokens.GenerateEmailToken(email, TokenTypeRegistration)
}

// CompleteRegistration creates the account once the email is proven
func (s *AuthService) CompleteRegistration(proofToken, name, password string) (*models.User, string, error) {
	claims, err := s.tokens.Parse(proofToken, TokenTypeRegistration)
	if err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        claims.Email,
		PasswordHash: string(hash),
		IsVerified:   true,
	}
	if _, err := s.store.CreateUser(user); err != nil {
		return nil, "", err
	}

	sessionToken, err := s.tokens.GenerateUserToken(user.UserID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, sessionToken, nil
}

// Login checks credentials and returns a session token
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, "", fmt.Errorf("%w: email not verified", ErrInvalidCredentials)
	}

	token, err := s.tokens.GenerateUserToken(user.UserID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ForgotPassword emails a reset OTP to an existing account
func (s *AuthService) ForgotPassword(email string) error {
	email = normalizeEmail(email)

	if _, err := s.store.GetUserByEmail(email); err != nil {
		if err == storage.ErrNotFound {
			return ErrUserNotFound
		}
		return err
	}

	otp, err := s.otps.Issue(email, models.OTPPurposePasswordReset)
	if err != nil {
		return err
	}

	return SendOTPEmail(s.email, email, otp.Code, models.OTPPurposePasswordReset)
}

// VerifyResetOTP checks the emailed code and returns a reset proof token
func (s *AuthService) VerifyResetOTP(email, code string) (string, error) {
	email = normalizeEmail(email)

	if err := s.otps.Verify(email, code, models.OTPPurposePasswordReset); err != nil {
		return "", err
	}

	return s.tokens.GenerateEmailToken(email, TokenTypeReset)
}

// ResetPassword sets a new password for the account named in the reset token
func (s *AuthService) ResetPassword(resetToken, newPassword string) error {
	claims, err := s.tokens.Parse(resetToken, TokenTypeReset)
	if err != nil {
		return err
	}

	user, err := s.store.GetUserByEmail(claims.Email)
	if err != nil {
		if err == storage.ErrNotFound {
			return ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	return s.store.UpdateUser(user)
}
