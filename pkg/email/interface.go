package email

import (
	"context"
	"fmt"
)

type EmailProvider interface {
	SendEmail(ctx context.Context, message *Message) (*SendResult, error)
	UpsertContact(ctx context.Context, contact *Contact) (*ContactResult, error)
	Name() string
}

type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Message struct {
	// From overrides the provider's default sender when set.
	From        *Address  `json:"sender,omitempty"`
	To          []Address `json:"to"`
	ReplyTo     *Address  `json:"replyTo,omitempty"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
	TextContent string    `json:"textContent,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

type SendResult struct {
	MessageID string `json:"messageId"`
}

type Contact struct {
	Email      string                 `json:"email"`
	ListIDs    []int64                `json:"listIds,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

type ContactResult struct {
	// ID is zero when an existing contact was updated.
	ID      int64 `json:"id"`
	Created bool  `json:"created"`
}

// APIError carries the provider status and body for unexpected responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("email provider returned status %d: %s", e.StatusCode, e.Body)
}
