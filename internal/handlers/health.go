package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	appConfig "attendance-notifier/internal/config"
)

// Messaging states reported by the health check.
const (
	MessagingConfigured    = "configured"
	MessagingStub          = "stub"
	MessagingNotConfigured = "not configured"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	cfg *appConfig.Config
}

// NewHealthHandlerWithConfig creates a health handler for an existing config.
func NewHealthHandlerWithConfig(cfg *appConfig.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// HealthResponse is the response structure for health checks.
type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	Service    string `json:"service"`
	Version    string `json:"version"`
	Stage      string `json:"stage"`
	Collection string `json:"collection"`
	Messaging  string `json:"messaging"`
}

// Check builds the health report and its HTTP status code.
func (h *HealthHandler) Check() (HealthResponse, int) {
	response := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Service:    "attendance-notifier",
		Version:    h.cfg.ServiceVersion,
		Stage:      h.cfg.Stage,
		Collection: h.cfg.AttendanceCollection,
	}

	switch {
	case !h.cfg.KnownProvider():
		response.Messaging = MessagingNotConfigured
		response.Status = "degraded"
	case h.cfg.UseStubProvider():
		response.Messaging = MessagingStub
	case h.cfg.HasTwilioCredentials() || h.cfg.TwilioCredentialsSecret != "":
		response.Messaging = MessagingConfigured
	default:
		response.Messaging = MessagingNotConfigured
		response.Status = "degraded"
	}

	statusCode := http.StatusOK
	if response.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	return response, statusCode
}

// Handle processes API Gateway health check requests.
func (h *HealthHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := map[string]string{
		"Access-Control-Allow-Origin": "*",
		"Content-Type":                "application/json",
	}

	response, statusCode := h.Check()
	body, _ := json.Marshal(response)

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}
