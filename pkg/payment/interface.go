package payment

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrInvalidPayload       = errors.New("invalid webhook payload")
	ErrWebhookSecretMissing = errors.New("webhook secret is not configured")
)

const (
	ModePayment      = "payment"
	ModeSubscription = "subscription"
)

// Event types the shop reacts to.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventInvoicePaymentSucceeded  = "invoice.payment_succeeded"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
)

type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, request *CheckoutSessionRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	CreateRecurringPrice(ctx context.Context, request *RecurringPriceRequest) (string, error)
	ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
}

type LineItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
	// UnitAmount is in minor currency units.
	UnitAmount int64 `json:"unit_amount"`
	Quantity   int64 `json:"quantity"`
	// PriceID references an existing provider price instead of inline data.
	PriceID string `json:"price_id,omitempty"`
}

type CheckoutSessionRequest struct {
	Mode                 string            `json:"mode"`
	Currency             string            `json:"currency"`
	LineItems            []LineItem        `json:"line_items"`
	SuccessURL           string            `json:"success_url"`
	CancelURL            string            `json:"cancel_url"`
	CustomerEmail        string            `json:"customer_email"`
	Metadata             map[string]string `json:"metadata"`
	SubscriptionMetadata map[string]string `json:"subscription_metadata,omitempty"`
	IdempotencyKey       string            `json:"-"`
}

type CheckoutSession struct {
	ID              string            `json:"id"`
	URL             string            `json:"url"`
	Mode            string            `json:"mode"`
	Status          string            `json:"status"`
	PaymentStatus   string            `json:"payment_status"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerID      string            `json:"customer_id,omitempty"`
	PaymentIntentID string            `json:"payment_intent_id,omitempty"`
	SubscriptionID  string            `json:"subscription_id,omitempty"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	Metadata        map[string]string `json:"metadata"`
}

type RecurringPriceRequest struct {
	ProductName   string            `json:"product_name"`
	UnitAmount    int64             `json:"unit_amount"`
	Currency      string            `json:"currency"`
	Interval      string            `json:"interval"`
	IntervalCount int64             `json:"interval_count"`
	Metadata      map[string]string `json:"metadata"`
}

type WebhookEvent struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data"`
	Raw       json.RawMessage        `json:"-"`
	CreatedAt int64                  `json:"created_at"`
	Livemode  bool                   `json:"livemode"`
}

// SubscriptionObject is the part of a provider subscription the shop reads.
type SubscriptionObject struct {
	ID         string            `json:"id"`
	CustomerID string            `json:"customer_id"`
	Status     string            `json:"status"`
	Metadata   map[string]string `json:"metadata"`
}

type InvoiceObject struct {
	ID             string `json:"id"`
	SubscriptionID string `json:"subscription_id"`
	CustomerEmail  string `json:"customer_email"`
	AmountPaid     int64  `json:"amount_paid"`
	Currency       string `json:"currency"`
}
