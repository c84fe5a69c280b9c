package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Dispatcher sends a text message to a phone number and returns the provider
// message identifier. Implemented by TwilioService; tests substitute a mock.
type Dispatcher interface {
	SendSMS(to, body string) (string, error)
}

type TwilioService struct {
	client *twilio.RestClient
	from   string // Twilio SMS number, E.164 format
}

var twilioInstance *TwilioService

// SetTwilioService sets the global Twilio service instance (call from main.go)
func SetTwilioService(t *TwilioService) {
	twilioInstance = t
}

// GetTwilioService returns the global Twilio service instance
func GetTwilioService() *TwilioService {
	return twilioInstance
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService() (*TwilioService, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_PHONE_NUMBER") // Format: "+14155238886"

	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	// A hung gateway call must not hold the request open indefinitely
	client.SetTimeout(10 * time.Second)

	return &TwilioService{
		client: client,
		from:   from,
	}, nil
}

// SendSMS sends a text message via Twilio and returns the message SID
func (t *TwilioService) SendSMS(to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send SMS to %s: %v", to, err)
		return "", err
	}

	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		return "", fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, *resp.ErrorMessage)
	}

	log.Printf("✅ SMS sent! SID: %s", *resp.Sid)
	return *resp.Sid, nil
}

// ProviderErrorCode extracts the Twilio error code from a dispatch failure,
// or 0 when the error carries none.
func ProviderErrorCode(err error) int {
	var restErr *twilioclient.TwilioRestError
	if errors.As(err, &restErr) {
		return restErr.Code
	}
	return 0
}
