package sms

import (
	"context"

	"github.com/google/uuid"

	"artisan/pkg/logger"
)

// LogProvider writes messages to the process log instead of a carrier.
type LogProvider struct {
	logger *logger.Logger
}

func NewLogProvider(log *logger.Logger) *LogProvider {
	return &LogProvider{logger: log}
}

func (l *LogProvider) Name() string { return "log" }

func (l *LogProvider) SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error) {
	id := uuid.NewString()
	l.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"channel":    "chat",
		"to":         request.To,
		"message_id": id,
	}).Info(request.Message)

	return &SMSResponse{MessageID: id, Status: "logged"}, nil
}
