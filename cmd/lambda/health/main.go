// Health Check Lambda entry point
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"attendance-notifier/internal/config"
	"attendance-notifier/internal/handlers"
	"attendance-notifier/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	handler := handlers.NewHealthHandlerWithConfig(cfg)

	lambda.Start(handler.Handle)
}
