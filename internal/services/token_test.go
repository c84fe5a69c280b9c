package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestScannerTokenRoundTrip(t *testing.T) {
	svc := NewTokenServiceWithSecret(testSecret)

	token, err := svc.GenerateScannerToken("+919876543210")
	require.NoError(t, err)

	claims, err := svc.Parse(token, TokenTypeScanner)
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", claims.Phone)
	assert.Equal(t, TokenTypeScanner, claims.Type)
}

func TestParseRejectsWrongTokenType(t *testing.T) {
	svc := NewTokenServiceWithSecret(testSecret)

	userToken, err := svc.GenerateUserToken("USR00001", "user")
	require.NoError(t, err)

	// A session token must not pass the scanner gate
	_, err = svc.Parse(userToken, TokenTypeScanner)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	svc := NewTokenServiceWithSecret(testSecret)

	token, err := svc.GenerateScannerToken("+919876543210")
	require.NoError(t, err)

	_, err = svc.Parse(token+"x", TokenTypeScanner)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenServiceWithSecret(testSecret).GenerateScannerToken("+919876543210")
	require.NoError(t, err)

	other := NewTokenServiceWithSecret("ffffffffffffffffffffffffffffffff")
	_, err = other.Parse(token, TokenTypeScanner)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserTokenCarriesRole(t *testing.T) {
	svc := NewTokenServiceWithSecret(testSecret)

	token, err := svc.GenerateUserToken("USR00001", "admin")
	require.NoError(t, err)

	claims, err := svc.Parse(token, TokenTypeUser)
	require.NoError(t, err)
	assert.Equal(t, "USR00001", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}
