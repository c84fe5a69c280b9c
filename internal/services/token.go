package services

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the "type" claim
const (
	TokenTypeUser         = "user"
	TokenTypeScanner      = "scanner"
	TokenTypeReset        = "password_reset"
	TokenTypeRegistration = "registration"
)

// ScannerTokenValidity bounds how long a verified scanner may fetch the
// profile before re-verifying. Kept at the OTP window.
const ScannerTokenValidity = 15 * time.Minute

// UserTokenValidity is the session length for logged-in users
const UserTokenValidity = 7 * 24 * time.Hour

type TokenService struct {
	secret []byte
}

type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// NewTokenService reads the signing secret from JWT_SECRET
func NewTokenService() (*TokenService, error) {
	secret := os.Getenv("JWT_SECRET")
	if len(secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// NewTokenServiceWithSecret is used by tests
func NewTokenServiceWithSecret(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

func (s *TokenService) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// GenerateUserToken issues a session token after login
func (s *TokenService) GenerateUserToken(userID, role string) (string, error) {
	now := time.Now()
	return s.sign(&Claims{
		UserID: userID,
		Role:   role,
		Type:   TokenTypeUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(UserTokenValidity)),
			ID:        uuid.New().String(),
		},
	})
}

// GenerateScannerToken issues the short-lived capability token returned by a
// successful OTP verification. Holding it is what authorizes profile reads.
func (s *TokenService) GenerateScannerToken(phone string) (string, error) {
	now := time.Now()
	return s.sign(&Claims{
		Phone: phone,
		Type:  TokenTypeScanner,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   phone,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ScannerTokenValidity)),
			ID:        uuid.New().String(),
		},
	})
}

// GenerateEmailToken issues a short-lived token proving an email OTP was
// verified, for the registration and password-reset flows.
func (s *TokenService) GenerateEmailToken(email, tokenType string) (string, error) {
	now := time.Now()
	return s.sign(&Claims{
		Email: email,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			ID:        uuid.New().String(),
		},
	})
}

// Parse validates the signature and expiry and returns the claims. The
// wantType guard stops a user session token from passing the scanner gate
// and vice versa.
func (s *TokenService) Parse(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrUnauthorized
	}
	if claims.Type != wantType {
		return nil, ErrUnauthorized
	}

	return claims, nil
}
