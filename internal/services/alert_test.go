package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeEmergencyMessageWithLocation(t *testing.T) {
	lat, lng := 28.6, 77.2
	msg := ComposeEmergencyMessage("Ramesh", "Priya", "9123456789", &lat, &lng)

	assert.Contains(t, msg, "Ramesh needs assistance")
	assert.Contains(t, msg, "Priya (9123456789)")
	assert.Contains(t, msg, "https://www.google.com/maps?q=28.6,77.2")
	assert.NotContains(t, msg, "Location unavailable")
}

func TestComposeEmergencyMessageWithoutLocation(t *testing.T) {
	msg := ComposeEmergencyMessage("Ramesh", "Priya", "9123456789", nil, nil)

	assert.Contains(t, msg, "Ramesh needs assistance")
	assert.Contains(t, msg, "Location unavailable")
	assert.NotContains(t, msg, "maps?q=")
}

func TestSendEmergencyAlert(t *testing.T) {
	dispatcher := &mockDispatcher{}
	svc := NewAlertService(dispatcher)

	sid, err := svc.SendEmergencyAlert("+919123456789", "Ramesh", "Priya", "9123456789", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "SM0001", sid)

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "+919123456789", dispatcher.sent[0].to)
	assert.Contains(t, dispatcher.sent[0].body, "Emergency Alert: Ramesh needs assistance!")
}

func TestSendEmergencyAlertDispatchFailure(t *testing.T) {
	dispatcher := &mockDispatcher{err: errors.New("invalid destination")}
	svc := NewAlertService(dispatcher)

	_, err := svc.SendEmergencyAlert("+919123456789", "Ramesh", "Priya", "9123456789", nil, nil)
	assert.ErrorIs(t, err, ErrDispatchFailed)
}
