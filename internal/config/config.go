// Package config provides configuration management for the application.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Messaging provider names accepted in MESSAGING_PROVIDER.
const (
	ProviderTwilio = "twilio"
	ProviderStub   = "stub"
)

// DefaultWhatsAppFrom is the Twilio WhatsApp sandbox sender.
const DefaultWhatsAppFrom = "whatsapp:+14155238886"

// Config holds all configuration values for the application.
type Config struct {
	// AWS
	AWSRegion string

	// Trigger
	AttendanceCollection string

	// Messaging
	MessagingProvider       string
	TwilioAccountSID        string
	TwilioAuthToken         string
	TwilioCredentialsSecret string
	WhatsAppFrom            string

	// Application
	Stage          string
	LogLevel       string
	ServiceVersion string
	Port           string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// AWS
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),

		// Trigger
		AttendanceCollection: getEnv("ATTENDANCE_COLLECTION", "attendance_records"),

		// Messaging
		MessagingProvider:       strings.ToLower(getEnv("MESSAGING_PROVIDER", ProviderTwilio)),
		TwilioAccountSID:        getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:         getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioCredentialsSecret: getEnv("TWILIO_CREDENTIALS_SECRET", ""),
		WhatsAppFrom:            getEnv("WHATSAPP_FROM", DefaultWhatsAppFrom),

		// Application
		Stage:          getEnv("STAGE", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ServiceVersion: getEnv("SERVICE_VERSION", "1.0.0"),
		Port:           getEnv("PORT", "8080"),
	}

	return cfg, nil
}

// HasTwilioCredentials reports whether both Twilio credentials are set.
func (c *Config) HasTwilioCredentials() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}

// KnownProvider reports whether MESSAGING_PROVIDER names a supported provider.
func (c *Config) KnownProvider() bool {
	return c.MessagingProvider == ProviderTwilio || c.MessagingProvider == ProviderStub
}

// UseStubProvider reports whether messages should be logged instead of sent.
func (c *Config) UseStubProvider() bool {
	return c.MessagingProvider == ProviderStub
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
