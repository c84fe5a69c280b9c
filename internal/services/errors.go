package services

import "errors"

// Failure taxonomy surfaced to the HTTP layer
var (
	ErrOTPNotFound    = errors.New("no OTP found for this number")
	ErrOTPMismatch    = errors.New("invalid OTP")
	ErrOTPExpired     = errors.New("OTP has expired")
	ErrDispatchFailed = errors.New("failed to dispatch message")
	ErrUnauthorized   = errors.New("unauthorized")
)
