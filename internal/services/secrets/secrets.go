// Package secrets loads messaging credentials from AWS Secrets Manager.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	appConfig "attendance-notifier/internal/config"
	"attendance-notifier/internal/models"
	"attendance-notifier/internal/utils"
)

type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Service reads secrets.
type Service struct {
	client secretsAPI
}

// TwilioCredentials is the JSON shape of the Twilio secret.
type TwilioCredentials struct {
	AccountSID string `json:"account_sid"`
	AuthToken  string `json:"auth_token"`
}

// NewService creates a Secrets Manager service for the configured region.
func NewService(ctx context.Context, region string) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Service{client: secretsmanager.NewFromConfig(cfg)}, nil
}

// GetTwilioCredentials fetches and decodes the Twilio secret.
func (s *Service) GetTwilioCredentials(ctx context.Context, secretID string) (*TwilioCredentials, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", secretID, err)
	}

	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", secretID)
	}

	var creds TwilioCredentials
	if err := json.Unmarshal([]byte(*out.SecretString), &creds); err != nil {
		return nil, fmt.Errorf("failed to decode secret %s: %w", secretID, err)
	}

	if creds.AccountSID == "" || creds.AuthToken == "" {
		return nil, fmt.Errorf("secret %s: %w", secretID, models.ErrMissingCredentials)
	}

	return &creds, nil
}

// ApplyTwilioCredentials overwrites the env-provided credentials in cfg
// with the ones stored in cfg.TwilioCredentialsSecret, if set.
func (s *Service) ApplyTwilioCredentials(ctx context.Context, cfg *appConfig.Config) error {
	if cfg.TwilioCredentialsSecret == "" {
		return nil
	}

	creds, err := s.GetTwilioCredentials(ctx, cfg.TwilioCredentialsSecret)
	if err != nil {
		return err
	}

	cfg.TwilioAccountSID = creds.AccountSID
	cfg.TwilioAuthToken = creds.AuthToken

	utils.GetLogger().Info("Loaded Twilio credentials from Secrets Manager",
		zap.String("secret", cfg.TwilioCredentialsSecret))

	return nil
}
