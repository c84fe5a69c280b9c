package utils

import (
	"os"
	"strings"
)

// defaultCountryCode is used when DEFAULT_COUNTRY_CODE is not set
const defaultCountryCode = "91"

// CountryCode returns the configured country code digits (no leading +)
func CountryCode() string {
	cc := strings.TrimPrefix(os.Getenv("DEFAULT_COUNTRY_CODE"), "+")
	if cc == "" {
		cc = defaultCountryCode
	}
	return cc
}

// NormalizePhone converts a raw phone string into the canonical store key:
// digits only, prefixed with the fixed country code, with a leading +.
// "+91 98765-43210" and "9876543210" normalize to the same identifier,
// and NormalizePhone(NormalizePhone(x)) == NormalizePhone(x).
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	cc := CountryCode()

	// Already carries the country code (e.g. "919876543210")
	if strings.HasPrefix(digits, cc) && len(digits) > 10 {
		return "+" + digits
	}

	return "+" + cc + digits
}
