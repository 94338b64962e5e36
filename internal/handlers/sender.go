package handlers

import (
	"context"
	"fmt"

	appConfig "attendance-notifier/internal/config"
	"attendance-notifier/internal/models"
	"attendance-notifier/internal/notifier"
	"attendance-notifier/internal/services/secrets"
	twilioservice "attendance-notifier/internal/services/twilio"
	"attendance-notifier/internal/utils"
)

// NewNotifier builds the process-wide notifier for cfg.
func NewNotifier(ctx context.Context, cfg *appConfig.Config) (*notifier.Notifier, error) {
	sender, err := newSender(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return notifier.New(sender, cfg.WhatsAppFrom), nil
}

func newSender(ctx context.Context, cfg *appConfig.Config) (notifier.Sender, error) {
	if cfg.UseStubProvider() {
		utils.GetLogger().Warn("Using stub messaging provider, messages will only be logged")
		return twilioservice.NewStubSender(), nil
	}

	if cfg.MessagingProvider != appConfig.ProviderTwilio {
		return nil, fmt.Errorf("unknown messaging provider: %s", cfg.MessagingProvider)
	}

	if cfg.TwilioCredentialsSecret != "" {
		secretsSvc, err := secrets.NewService(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		if err := secretsSvc.ApplyTwilioCredentials(ctx, cfg); err != nil {
			return nil, err
		}
	}

	if !cfg.HasTwilioCredentials() {
		return nil, models.ErrMissingCredentials
	}

	return twilioservice.NewService(cfg.TwilioAccountSID, cfg.TwilioAuthToken)
}
