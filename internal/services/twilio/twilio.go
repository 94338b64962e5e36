// Package twilioservice sends WhatsApp messages through Twilio Programmable Messaging.
package twilioservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"attendance-notifier/internal/models"
	"attendance-notifier/internal/notifier"
	"attendance-notifier/internal/utils"
)

// messageAPI is the slice of the Twilio REST API this service uses.
type messageAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// Service handles Twilio message operations.
type Service struct {
	api messageAPI
}

// NewService creates a Twilio service for the given account.
func NewService(accountSID, authToken string) (*Service, error) {
	if accountSID == "" || authToken == "" {
		return nil, models.ErrMissingCredentials
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &Service{api: client.Api}, nil
}

// newServiceWithAPI is used by tests to inject a fake REST API.
func newServiceWithAPI(api messageAPI) *Service {
	return &Service{api: api}
}

// Send creates one outbound message. The Twilio SDK does not take a context,
// so cancellation is only checked before the call.
func (s *Service) Send(ctx context.Context, msg notifier.Message) (*notifier.SendResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(msg.From)
	params.SetTo(msg.To)
	params.SetBody(msg.Body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return nil, classify(err)
	}

	result := &notifier.SendResult{}
	if resp != nil {
		if resp.Sid != nil {
			result.MessageID = *resp.Sid
		}
		if resp.Status != nil {
			result.Status = *resp.Status
		}
	}

	return result, nil
}

// classify converts a Twilio REST error into a models.ProviderError.
func classify(err error) error {
	var restErr *twclient.TwilioRestError
	if errors.As(err, &restErr) {
		return &models.ProviderError{
			Code:       restErr.Code,
			HTTPStatus: restErr.Status,
			Message:    restErr.Message,
			Err:        err,
		}
	}
	return fmt.Errorf("twilio request failed: %w", err)
}

// StubSender logs messages instead of sending them.
type StubSender struct{}

// NewStubSender creates a sender for local development without credentials.
func NewStubSender() *StubSender {
	return &StubSender{}
}

// Send logs the message and reports it as sent.
func (s *StubSender) Send(_ context.Context, msg notifier.Message) (*notifier.SendResult, error) {
	utils.GetLogger().Info("Sending WhatsApp message (stub)",
		utils.String("from", msg.From),
		utils.String("to", msg.To),
		utils.String("body", msg.Body),
	)
	return &notifier.SendResult{
		MessageID: "stub",
		Status:    "queued",
	}, nil
}
