// Package handlers provides Lambda handlers for the attendance notifier.
package handlers

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"go.uber.org/zap"

	appConfig "attendance-notifier/internal/config"
	"attendance-notifier/internal/models"
	"attendance-notifier/internal/notifier"
	"attendance-notifier/internal/utils"
)

// AttendanceStreamHandler reacts to attendance records created in DynamoDB.
type AttendanceStreamHandler struct {
	notifier   *notifier.Notifier
	collection string
	logger     *zap.Logger
}

// NewAttendanceStreamHandler creates a handler for a loaded config.
// The messaging client is built once here and reused by every invocation.
func NewAttendanceStreamHandler(ctx context.Context, cfg *appConfig.Config) (*AttendanceStreamHandler, error) {
	n, err := NewNotifier(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewAttendanceStreamHandlerWithNotifier(n, cfg.AttendanceCollection, utils.GetLogger()), nil
}

// NewAttendanceStreamHandlerWithNotifier wires an existing notifier.
func NewAttendanceStreamHandlerWithNotifier(n *notifier.Notifier, collection string, logger *zap.Logger) *AttendanceStreamHandler {
	return &AttendanceStreamHandler{
		notifier:   n,
		collection: collection,
		logger:     logger,
	}
}

// StreamResult summarizes one stream batch.
type StreamResult struct {
	Received  int `json:"received"`
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Ignored   int `json:"ignored"`
}

// Handle processes a DynamoDB stream batch. It never returns an error:
// notification problems must not cause the stream to redeliver records.
func (h *AttendanceStreamHandler) Handle(ctx context.Context, event events.DynamoDBEvent) (StreamResult, error) {
	result := StreamResult{Received: len(event.Records)}

	for _, record := range event.Records {
		if !h.accepts(record) {
			h.logger.Debug("Ignoring stream record",
				utils.String("eventId", record.EventID),
				utils.String("eventName", record.EventName),
				utils.String("eventSourceArn", record.EventSourceArn))
			result.Ignored++
			continue
		}

		attendance := DecodeAttendanceImage(record.Change.NewImage)
		if attendance.RecordID == "" {
			attendance.RecordID = record.EventID
		}

		outcome := h.notifier.Notify(ctx, attendance)
		LogOutcome(h.logger, outcome)

		result.Processed++
		switch outcome.Status {
		case models.OutcomeSent:
			result.Sent++
		case models.OutcomeSkippedInvalidTarget:
			result.Skipped++
		case models.OutcomeFailed:
			result.Failed++
		}
	}

	return result, nil
}

// accepts reports whether a record is a creation in the watched collection.
func (h *AttendanceStreamHandler) accepts(record events.DynamoDBEventRecord) bool {
	if record.EventName != string(events.DynamoDBOperationTypeInsert) {
		return false
	}

	if record.EventSourceArn == "" {
		return true
	}

	return TableFromStreamARN(record.EventSourceArn) == h.collection
}

// TableFromStreamARN extracts the table name from a DynamoDB stream ARN,
// e.g. arn:aws:dynamodb:us-east-1:123456789012:table/attendance_records/stream/2024-01-01T00:00:00.000.
// It returns "" for anything that is not a DynamoDB table ARN.
func TableFromStreamARN(streamARN string) string {
	parsed, err := arn.Parse(streamARN)
	if err != nil || parsed.Service != "dynamodb" {
		return ""
	}

	parts := strings.Split(parsed.Resource, "/")
	if len(parts) < 2 || parts[0] != "table" {
		return ""
	}
	return parts[1]
}

// DecodeAttendanceImage reads the string attributes of a new item image.
// Attributes of any other type, including NULL, are treated as absent.
func DecodeAttendanceImage(image map[string]events.DynamoDBAttributeValue) models.AttendanceEvent {
	fields := make(map[string]string, len(image))
	for name, value := range image {
		if value.DataType() == events.DataTypeString {
			fields[name] = value.String()
		}
	}

	return models.DocumentFromFields(fields).ToEvent()
}

// LogOutcome writes the single diagnostic line for an outcome.
func LogOutcome(logger *zap.Logger, outcome models.Outcome) {
	switch outcome.Status {
	case models.OutcomeSent:
		logger.Info("WhatsApp notification sent",
			utils.String("notificationId", outcome.NotificationID),
			utils.String("recordId", outcome.RecordID),
			utils.String("to", outcome.To),
			utils.String("messageSid", outcome.ProviderMessageID))
	case models.OutcomeSkippedInvalidTarget:
		logger.Warn("No valid WhatsApp number found for parent",
			utils.String("notificationId", outcome.NotificationID),
			utils.String("recordId", outcome.RecordID),
			utils.Error(outcome.Err))
	case models.OutcomeFailed:
		fields := []utils.LogField{
			utils.String("notificationId", outcome.NotificationID),
			utils.String("recordId", outcome.RecordID),
			utils.String("to", outcome.To),
			utils.Error(outcome.Err),
		}
		if outcome.ProviderCode != 0 {
			fields = append(fields, utils.Int("providerCode", outcome.ProviderCode))
		}
		logger.Error("Failed to send WhatsApp notification", fields...)
	}
}
