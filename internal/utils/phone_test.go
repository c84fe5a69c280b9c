package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain 10 digits", "9876543210", "+919876543210"},
		{"formatted with country code", "+91 98765-43210", "+919876543210"},
		{"spaces and dashes", "98-765 432 10", "+919876543210"},
		{"already canonical", "+919876543210", "+919876543210"},
		{"country code without plus", "919876543210", "+919876543210"},
		{"local number starting with 91", "9123456789", "+919123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw))
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"9876543210", "+91 98765-43210", "919876543210", "9123456789"}
	for _, raw := range inputs {
		once := NormalizePhone(raw)
		assert.Equal(t, once, NormalizePhone(once), "normalize(normalize(%q))", raw)
	}
}

func TestNormalizePhoneEquivalentInputs(t *testing.T) {
	// send and verify must agree on the same canonical identifier
	assert.Equal(t, NormalizePhone("+91 98765-43210"), NormalizePhone("9876543210"))
}

func TestGenerateSecureOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateSecureOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}
