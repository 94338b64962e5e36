package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"attendance-notifier/internal/config"
	"attendance-notifier/internal/handlers"
	"attendance-notifier/internal/notifier"
)

type countingSender struct {
	calls int
}

func (s *countingSender) Send(_ context.Context, _ notifier.Message) (*notifier.SendResult, error) {
	s.calls++
	return &notifier.SendResult{MessageID: "SM1"}, nil
}

func newTestServer(sender notifier.Sender) *Server {
	cfg := &config.Config{MessagingProvider: config.ProviderStub, Stage: "test"}
	return &Server{
		notifier: notifier.New(sender, config.DefaultWhatsAppFrom),
		health:   handlers.NewHealthHandlerWithConfig(cfg),
		logger:   zap.NewNop(),
	}
}

func TestAttendanceHandler_Sends(t *testing.T) {
	sender := &countingSender{}
	srv := newTestServer(sender)

	body := `{"parent_contact":"+15551234567","student_name":"Ana","course_name":"Math","status":"present"}`
	req := httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(body))
	rec := httptest.NewRecorder()

	srv.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sender.calls)

	var resp struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sent", resp.Message)
	assert.Equal(t, "whatsapp:+15551234567", resp.Data["to"])
	assert.Equal(t, "Attendance Update: Ana for course Math is marked present.", resp.Data["body"])
}

func TestAttendanceHandler_InvalidContactStillSucceeds(t *testing.T) {
	sender := &countingSender{}
	srv := newTestServer(sender)

	req := httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(`{"student_name":"Ana"}`))
	rec := httptest.NewRecorder()

	srv.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, sender.calls)
	assert.Contains(t, rec.Body.String(), "skipped_invalid_target")
}

func TestAttendanceHandler_BadRequests(t *testing.T) {
	srv := newTestServer(&countingSender{})

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attendance", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(&countingSender{})

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"messaging":"stub"`)
}
