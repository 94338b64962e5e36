// Attendance Notifier Lambda entry point, subscribed to the
// attendance_records DynamoDB stream.
package main

import (
	"context"

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

	// The messaging client is created once per cold start
	handler, err := handlers.NewAttendanceStreamHandler(context.Background(), cfg)
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}

	lambda.Start(handler.Handle)
}
