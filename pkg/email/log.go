package email

import (
	"context"

	"github.com/google/uuid"

	"artisan/pkg/logger"
)

// LogProvider records messages in the process log. Used when no API key is
// configured.
type LogProvider struct {
	logger *logger.Logger
}

func NewLogProvider(log *logger.Logger) *LogProvider {
	return &LogProvider{logger: log}
}

func (l *LogProvider) Name() string { return "log" }

func (l *LogProvider) SendEmail(ctx context.Context, message *Message) (*SendResult, error) {
	recipients := make([]string, 0, len(message.To))
	for _, to := range message.To {
		recipients = append(recipients, to.Email)
	}

	id := uuid.NewString()
	l.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"channel":    "email",
		"to":         recipients,
		"subject":    message.Subject,
		"message_id": id,
		"html_bytes": len(message.HTMLContent),
	}).Info("Email not sent, log provider active")

	return &SendResult{MessageID: id}, nil
}

func (l *LogProvider) UpsertContact(ctx context.Context, contact *Contact) (*ContactResult, error) {
	l.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"channel":    "email",
		"email":      contact.Email,
		"list_ids":   contact.ListIDs,
		"attributes": contact.Attributes,
	}).Info("Contact not synced, log provider active")

	return &ContactResult{}, nil
}
