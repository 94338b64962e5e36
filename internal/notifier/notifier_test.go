package notifier_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance-notifier/internal/models"
	"attendance-notifier/internal/notifier"
)

const sandboxFrom = "whatsapp:+14155238886"

// fakeSender records every message and returns the configured result.
type fakeSender struct {
	mu       sync.Mutex
	messages []notifier.Message
	result   *notifier.SendResult
	err      error
	panicMsg string
}

func (f *fakeSender) Send(_ context.Context, msg notifier.Message) (*notifier.SendResult, error) {
	f.mu.Lock()
	f.messages = append(f.messages, msg)
	f.mu.Unlock()

	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeSender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func validEvent() models.AttendanceEvent {
	return models.AttendanceEvent{
		ParentContact: "+15551234567",
		StudentName:   "Ana",
		CourseName:    "Math",
		Status:        "present",
	}
}

func TestBuildMessage(t *testing.T) {
	assert.Equal(t,
		"Attendance Update: Ana for course Math is marked present.",
		notifier.BuildMessage(validEvent()))
}

func TestBuildMessage_Verbatim(t *testing.T) {
	event := models.AttendanceEvent{
		StudentName: "  <b>José</b> ",
		CourseName:  "Math %d {{.X}}",
		Status:      "ABSENT",
	}

	assert.Equal(t,
		"Attendance Update:   <b>José</b>  for course Math %d {{.X}} is marked ABSENT.",
		notifier.BuildMessage(event))
}

func TestTargetAddress(t *testing.T) {
	assert.Equal(t, "whatsapp:+15551234567", notifier.TargetAddress("+15551234567"))
	assert.Equal(t, "whatsapp:+44 20 7946 0958", notifier.TargetAddress("+44 20 7946 0958"))
}

func TestNotify_ValidContactSendsOnce(t *testing.T) {
	sender := &fakeSender{result: &notifier.SendResult{MessageID: "SM123", Status: "queued"}}
	n := notifier.New(sender, sandboxFrom)

	outcome := n.Notify(context.Background(), validEvent())

	require.Equal(t, 1, sender.calls())
	assert.Equal(t, notifier.Message{
		From: sandboxFrom,
		To:   "whatsapp:+15551234567",
		Body: "Attendance Update: Ana for course Math is marked present.",
	}, sender.messages[0])

	assert.Equal(t, models.OutcomeSent, outcome.Status)
	assert.Equal(t, "SM123", outcome.ProviderMessageID)
	assert.Equal(t, "whatsapp:+15551234567", outcome.To)
	assert.NotEmpty(t, outcome.NotificationID)
	assert.NoError(t, outcome.Err)
	assert.True(t, outcome.Attempted())
}

func TestNotify_InvalidContactSkips(t *testing.T) {
	tests := []struct {
		name    string
		contact string
	}{
		{"missing", ""},
		{"no plus", "15551234567"},
		{"whitespace before plus", " +15551234567"},
		{"already prefixed", "whatsapp:+15551234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{result: &notifier.SendResult{MessageID: "SM1"}}
			n := notifier.New(sender, sandboxFrom)

			event := validEvent()
			event.ParentContact = tt.contact
			outcome := n.Notify(context.Background(), event)

			assert.Equal(t, 0, sender.calls())
			assert.Equal(t, models.OutcomeSkippedInvalidTarget, outcome.Status)
			assert.True(t, models.IsInvalidTarget(outcome.Err))
			assert.False(t, outcome.Attempted())
			assert.Empty(t, outcome.To)
		})
	}
}

func TestNotify_ProviderErrorIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("dial tcp: i/o timeout")}
	n := notifier.New(sender, sandboxFrom)

	outcome := n.Notify(context.Background(), validEvent())

	assert.Equal(t, 1, sender.calls(), "no retries")
	assert.Equal(t, models.OutcomeFailed, outcome.Status)
	assert.True(t, models.IsProviderFailure(outcome.Err))
	assert.Contains(t, outcome.Error, "i/o timeout")
	assert.Zero(t, outcome.ProviderCode)
}

func TestNotify_ProviderCodeIsReported(t *testing.T) {
	sender := &fakeSender{err: &models.ProviderError{
		Code:       21211,
		HTTPStatus: 400,
		Message:    "Invalid 'To' Phone Number",
	}}
	n := notifier.New(sender, sandboxFrom)

	outcome := n.Notify(context.Background(), validEvent())

	assert.Equal(t, models.OutcomeFailed, outcome.Status)
	assert.Equal(t, 21211, outcome.ProviderCode)
}

func TestNotify_SenderPanicIsRecovered(t *testing.T) {
	sender := &fakeSender{panicMsg: "nil client"}
	n := notifier.New(sender, sandboxFrom)

	var outcome models.Outcome
	assert.NotPanics(t, func() {
		outcome = n.Notify(context.Background(), validEvent())
	})

	assert.Equal(t, 1, sender.calls())
	assert.Equal(t, models.OutcomeFailed, outcome.Status)
	assert.Contains(t, outcome.Error, "nil client")
}

func TestNotify_NilResultStillSent(t *testing.T) {
	n := notifier.New(&fakeSender{}, sandboxFrom)

	outcome := n.Notify(context.Background(), validEvent())

	assert.Equal(t, models.OutcomeSent, outcome.Status)
	assert.Empty(t, outcome.ProviderMessageID)
}

func TestNotify_ConcurrentInvocations(t *testing.T) {
	sender := &fakeSender{result: &notifier.SendResult{MessageID: "SM1"}}
	n := notifier.New(sender, sandboxFrom)

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = n.Notify(context.Background(), validEvent()).NotificationID
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, sender.calls())

	seen := make(map[string]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "notification ids must be unique")
		seen[id] = true
	}
}
