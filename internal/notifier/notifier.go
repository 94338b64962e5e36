// Package notifier turns attendance events into WhatsApp notifications.
//
// The package is platform-free: it knows nothing about Lambda, DynamoDB or
// HTTP. Callers hand it an AttendanceEvent and get back an Outcome. Notify
// never returns an error, so a caller cannot accidentally fail the trigger
// that produced the event.
package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"attendance-notifier/internal/models"
)

// AddressScheme is prefixed onto a phone number to form a WhatsApp address.
const AddressScheme = "whatsapp:"

// messageFormat embeds student, course and status verbatim.
const messageFormat = "Attendance Update: %s for course %s is marked %s."

// Message is a single outbound send request.
type Message struct {
	From string
	To   string
	Body string
}

// SendResult is what the provider reports for an accepted message.
type SendResult struct {
	MessageID string
	Status    string
}

// Sender delivers one message through a messaging provider.
type Sender interface {
	Send(ctx context.Context, msg Message) (*SendResult, error)
}

// Notifier sends attendance notifications from a fixed sender address.
type Notifier struct {
	sender Sender
	from   string
	newID  func() string
}

// New creates a notifier that sends from the given address.
func New(sender Sender, from string) *Notifier {
	return &Notifier{
		sender: sender,
		from:   from,
		newID:  uuid.NewString,
	}
}

// BuildMessage renders the notification body.
func BuildMessage(event models.AttendanceEvent) string {
	return fmt.Sprintf(messageFormat, event.StudentName, event.CourseName, event.Status)
}

// TargetAddress prefixes the provider scheme onto a raw contact.
func TargetAddress(contact string) string {
	return AddressScheme + contact
}

// Notify makes at most one send attempt for the event.
func (n *Notifier) Notify(ctx context.Context, event models.AttendanceEvent) models.Outcome {
	outcome := models.Outcome{
		NotificationID: n.newID(),
		RecordID:       event.RecordID,
	}

	if err := models.ValidateTarget(event.ParentContact); err != nil {
		outcome.Status = models.OutcomeSkippedInvalidTarget
		outcome.Err = err
		outcome.Error = err.Error()
		return outcome
	}

	outcome.To = TargetAddress(event.ParentContact)
	outcome.Body = BuildMessage(event)

	result, err := n.send(ctx, Message{
		From: n.from,
		To:   outcome.To,
		Body: outcome.Body,
	})
	if err != nil {
		outcome.Status = models.OutcomeFailed
		outcome.Err = fmt.Errorf("%w: %w", models.ErrProviderSend, err)
		outcome.Error = outcome.Err.Error()

		var providerErr *models.ProviderError
		if errors.As(err, &providerErr) {
			outcome.ProviderCode = providerErr.Code
		}
		return outcome
	}

	outcome.Status = models.OutcomeSent
	if result != nil {
		outcome.ProviderMessageID = result.MessageID
	}
	return outcome
}

// send calls the provider once, turning a panic into an error.
func (n *Notifier) send(ctx context.Context, msg Message) (result *SendResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("sender panicked: %v", r)
		}
	}()

	return n.sender.Send(ctx, msg)
}
