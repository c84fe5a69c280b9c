package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elderlycare/elderlycare-backend/internal/models"
	"github.com/elderlycare/elderlycare-backend/internal/services"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
	"github.com/elderlycare/elderlycare-backend/internal/utils"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeDispatcher struct {
	sent []string
	err  error
}

func (f *fakeDispatcher) SendSMS(to, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, to)
	return "SM-test", nil
}

type fakeEmailSender struct{}

func (f *fakeEmailSender) SendEmail(to, subject, plainText, htmlContent string) error {
	return nil
}

func newTestApp(t *testing.T, dispatcher *fakeDispatcher) (*fiber.App, *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	tokens := services.NewTokenServiceWithSecret(testSecret)
	otps := services.NewOTPService(store, dispatcher)

	app := fiber.New()
	SetupRoutes(app, Deps{
		Store:           store,
		OTPs:            otps,
		Tokens:          tokens,
		Auth:            services.NewAuthService(store, otps, tokens, &fakeEmailSender{}),
		Alerts:          services.NewAlertService(dispatcher),
		QRs:             services.NewQRService(store),
		Recommendations: services.NewRecommendationService(store),
		Email:           &fakeEmailSender{},
	})
	return app, store
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return out
}

func seedProfile(t *testing.T, store storage.Store, userID string) {
	t.Helper()

	_, err := store.CreateProfile(&models.MedicalProfile{
		UserID:           userID,
		Name:             "Kamala Devi",
		DOB:              time.Date(1948, 3, 12, 0, 0, 0, 0, time.UTC),
		BloodGroup:       "B+",
		Phone:            "+919812345678",
		EmergencyContact: "Ravi",
		EmergencyPhone:   "+919876543210",
	})
	require.NoError(t, err)
}

func TestScannerOTPFlowUnlocksProfile(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	app, store := newTestApp(t, dispatcher)
	seedProfile(t, store, "USR00001")

	// No token: the gate stays closed
	req := httptest.NewRequest(http.MethodGet, "/api/profile/USR00001", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Request an OTP
	resp, body := postJSON(t, app, "/api/otp/send", fiber.Map{"phone": "9812345678"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "otp")
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "+919812345678", dispatcher.sent[0])

	// Wrong code is rejected and the record stays live
	resp, body = postJSON(t, app, "/api/otp/verify", fiber.Map{"phone": "9812345678", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	otp, err := store.GetLatestOTP(utils.NormalizePhone("9812345678"), models.OTPPurposeScanner)
	require.NoError(t, err)

	// Right code yields the access token
	resp, body = postJSON(t, app, "/api/otp/verify", fiber.Map{"phone": "9812345678", "otp": otp.Code})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	// The token unlocks the profile
	req = httptest.NewRequest(http.MethodGet, "/api/profile/USR00001", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeBody(t, resp)
	assert.Equal(t, "Kamala Devi", profile["name"])

	// The code was consumed; it cannot be replayed
	resp, _ = postJSON(t, app, "/api/otp/verify", fiber.Map{"phone": "9812345678", "otp": otp.Code})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSendOTPDispatchFailure(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("carrier rejected")}
	app, _ := newTestApp(t, dispatcher)

	resp, body := postJSON(t, app, "/api/otp/send", fiber.Map{"phone": "9812345678"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestSendOTPRequiresPhone(t *testing.T) {
	app, _ := newTestApp(t, &fakeDispatcher{})

	resp, _ := postJSON(t, app, "/api/otp/send", fiber.Map{"name": "Someone"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGatedProfileNotFound(t *testing.T) {
	app, _ := newTestApp(t, &fakeDispatcher{})
	tokens := services.NewTokenServiceWithSecret(testSecret)
	token, err := tokens.GenerateScannerToken("+919812345678")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/profile/USR99999", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestScannerGateRejectsUserToken(t *testing.T) {
	app, store := newTestApp(t, &fakeDispatcher{})
	seedProfile(t, store, "USR00001")

	tokens := services.NewTokenServiceWithSecret(testSecret)
	token, err := tokens.GenerateUserToken("USR00001", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/profile/USR00001", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEmergencyAlert(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	app, _ := newTestApp(t, dispatcher)

	lat, lng := 28.6139, 77.209
	resp, body := postJSON(t, app, "/api/alert/send", fiber.Map{
		"to":           "9876543210",
		"profile_name": "Kamala Devi",
		"scanner_name": "Ravi",
		"scanner_phone": "+919812345678",
		"latitude":     lat,
		"longitude":    lng,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "+919876543210", dispatcher.sent[0])
}

func TestMedicalProfileCRUD(t *testing.T) {
	app, _ := newTestApp(t, &fakeDispatcher{})

	tokens := services.NewTokenServiceWithSecret(testSecret)
	token, err := tokens.GenerateUserToken("USR00001", "user")
	require.NoError(t, err)

	payload := fiber.Map{
		"name":              "Kamala Devi",
		"dob":               "1948-03-12",
		"blood_group":       "B+",
		"height":            62.0,
		"height_unit":       "inches",
		"weight":            58.0,
		"phone":             "9812345678",
		"emergency_contact": "Ravi",
		"emergency_phone":   "9876543210",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/medical/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Only the owner may read back through the account path
	req = httptest.NewRequest(http.MethodGet, "/api/medical/USR00001", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeBody(t, resp)
	// 62 inches stored as centimeters
	assert.InDelta(t, 157.48, profile["height"], 0.01)

	other, err := tokens.GenerateUserToken("USR00002", "user")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/medical/USR00001", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestContactValidation(t *testing.T) {
	app, _ := newTestApp(t, &fakeDispatcher{})

	resp, body := postJSON(t, app, "/api/contact", fiber.Map{"name": "Asha"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotNil(t, body["fields"])

	resp, _ = postJSON(t, app, "/api/contact", fiber.Map{
		"name":    "Asha",
		"email":   "asha@example.com",
		"subject": "Question",
		"message": "How do I update my profile?",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
