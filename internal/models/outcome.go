package models

// OutcomeStatus is the terminal state of one notification attempt.
type OutcomeStatus string

const (
	OutcomeSent                 OutcomeStatus = "sent"
	OutcomeSkippedInvalidTarget OutcomeStatus = "skipped_invalid_target"
	OutcomeFailed               OutcomeStatus = "failed"
)

// Outcome describes what happened to one attendance event.
// Every status is terminal: nothing is retried or re-queued.
type Outcome struct {
	Status            OutcomeStatus `json:"status"`
	NotificationID    string        `json:"notification_id"`
	RecordID          string        `json:"record_id,omitempty"`
	To                string        `json:"to,omitempty"`
	Body              string        `json:"body,omitempty"`
	ProviderMessageID string        `json:"provider_message_id,omitempty"`
	ProviderCode      int           `json:"provider_code,omitempty"`
	Err               error         `json:"-"`
	Error             string        `json:"error,omitempty"`
}

// Attempted reports whether the provider was called.
func (o Outcome) Attempted() bool {
	return o.Status == OutcomeSent || o.Status == OutcomeFailed
}
