package services

import (
	"fmt"
	"strconv"
)

// AlertService composes and dispatches emergency alerts to a profile's
// registered emergency contact. Sends are single best-effort; no retry.
type AlertService struct {
	dispatcher Dispatcher
}

func NewAlertService(dispatcher Dispatcher) *AlertService {
	return &AlertService{dispatcher: dispatcher}
}

// ComposeEmergencyMessage builds the alert text. Coordinates, when present,
// become a Google Maps link; otherwise the message notes the location is
// unavailable.
func ComposeEmergencyMessage(profileName, scannerName, scannerPhone string, latitude, longitude *float64) string {
	location := "Location unavailable"
	if latitude != nil && longitude != nil {
		location = fmt.Sprintf("Location: https://www.google.com/maps?q=%s,%s",
			strconv.FormatFloat(*latitude, 'f', -1, 64),
			strconv.FormatFloat(*longitude, 'f', -1, 64))
	}

	return fmt.Sprintf("Emergency Alert: %s needs assistance!\nScanner: %s (%s)\n%s",
		profileName, scannerName, scannerPhone, location)
}

// SendEmergencyAlert dispatches the composed message and returns the provider
// message identifier.
func (s *AlertService) SendEmergencyAlert(to, profileName, scannerName, scannerPhone string, latitude, longitude *float64) (string, error) {
	body := ComposeEmergencyMessage(profileName, scannerName, scannerPhone, latitude, longitude)

	sid, err := s.dispatcher.SendSMS(to, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	return sid, nil
}
