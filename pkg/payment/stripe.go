package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeProvider struct {
	client        *client.API
	webhookSecret string
	allowUnsigned bool
}

type StripeOption func(*stripeOptions)

type stripeOptions struct {
	apiURL        string
	allowUnsigned bool
}

// WithAPIURL points the client at another API host, such as a test server.
func WithAPIURL(url string) StripeOption {
	return func(o *stripeOptions) { o.apiURL = url }
}

// WithUnsignedWebhooks accepts webhook bodies without a signature when no
// webhook secret is configured. Only for local development.
func WithUnsignedWebhooks(allow bool) StripeOption {
	return func(o *stripeOptions) { o.allowUnsigned = allow }
}

func NewStripeProvider(secretKey, webhookSecret string, opts ...StripeOption) *StripeProvider {
	o := &stripeOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var backends *stripe.Backends
	if o.apiURL != "" {
		backends = stripe.NewBackendsWithConfig(&stripe.BackendConfig{
			URL:               stripe.String(o.apiURL),
			MaxNetworkRetries: stripe.Int64(0),
		})
	}

	sc := &client.API{}
	sc.Init(secretKey, backends)

	return &StripeProvider{
		client:        sc,
		webhookSecret: webhookSecret,
		allowUnsigned: o.allowUnsigned,
	}
}

func (s *StripeProvider) CreateCheckoutSession(ctx context.Context, request *CheckoutSessionRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(request.Mode),
		SuccessURL:         stripe.String(request.SuccessURL),
		CancelURL:          stripe.String(request.CancelURL),
		Metadata:           request.Metadata,
	}
	params.Context = ctx

	if request.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(request.CustomerEmail)
	}
	if request.IdempotencyKey != "" {
		params.SetIdempotencyKey(request.IdempotencyKey)
	}
	if request.Mode == ModeSubscription && len(request.SubscriptionMetadata) > 0 {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: request.SubscriptionMetadata,
		}
	}

	for _, item := range request.LineItems {
		params.LineItems = append(params.LineItems, toStripeLineItem(item, request.Currency))
	}

	session, err := s.client.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return convertCheckoutSession(session), nil
}

func (s *StripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := s.client.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout session: %w", err)
	}

	return convertCheckoutSession(session), nil
}

func (s *StripeProvider) CreateRecurringPrice(ctx context.Context, request *RecurringPriceRequest) (string, error) {
	params := &stripe.PriceParams{
		Currency:   stripe.String(request.Currency),
		UnitAmount: stripe.Int64(request.UnitAmount),
		Recurring: &stripe.PriceRecurringParams{
			Interval:      stripe.String(request.Interval),
			IntervalCount: stripe.Int64(request.IntervalCount),
		},
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(request.ProductName),
		},
	}
	params.Context = ctx
	for key, value := range request.Metadata {
		params.AddMetadata(key, value)
	}

	price, err := s.client.Prices.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create recurring price: %w", err)
	}

	return price.ID, nil
}

// ValidateWebhook verifies the Stripe-Signature header and decodes the event.
// Signature problems wrap ErrInvalidSignature; malformed bodies wrap
// ErrInvalidPayload.
func (s *StripeProvider) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	var (
		event stripe.Event
		err   error
	)

	if s.webhookSecret == "" {
		if !s.allowUnsigned {
			return nil, ErrWebhookSecretMissing
		}
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	} else {
		event, err = webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
		if err != nil {
			if isSignatureError(err) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}

	if event.Type == "" || event.Data == nil {
		return nil, fmt.Errorf("%w: missing type or data", ErrInvalidPayload)
	}

	data := make(map[string]interface{})
	if err := json.Unmarshal(event.Data.Raw, &data); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal event data: %v", ErrInvalidPayload, err)
	}

	return &WebhookEvent{
		EventID:   event.ID,
		EventType: string(event.Type),
		Data:      data,
		Raw:       event.Data.Raw,
		CreatedAt: event.Created,
		Livemode:  event.Livemode,
	}, nil
}

// CheckoutSession decodes the event object as a checkout session.
func (e *WebhookEvent) CheckoutSession() (*CheckoutSession, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(e.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: checkout session: %v", ErrInvalidPayload, err)
	}
	return convertCheckoutSession(&session), nil
}

// Subscription decodes the event object as a subscription.
func (e *WebhookEvent) Subscription() (*SubscriptionObject, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(e.Raw, &sub); err != nil {
		return nil, fmt.Errorf("%w: subscription: %v", ErrInvalidPayload, err)
	}

	out := &SubscriptionObject{
		ID:       sub.ID,
		Status:   string(sub.Status),
		Metadata: sub.Metadata,
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	return out, nil
}

// Invoice decodes the event object as an invoice.
func (e *WebhookEvent) Invoice() (*InvoiceObject, error) {
	var inv stripe.Invoice
	if err := json.Unmarshal(e.Raw, &inv); err != nil {
		return nil, fmt.Errorf("%w: invoice: %v", ErrInvalidPayload, err)
	}

	out := &InvoiceObject{
		ID:            inv.ID,
		CustomerEmail: inv.CustomerEmail,
		AmountPaid:    inv.AmountPaid,
		Currency:      string(inv.Currency),
	}
	if inv.Subscription != nil {
		out.SubscriptionID = inv.Subscription.ID
	}
	return out, nil
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}

func toStripeLineItem(item LineItem, currency string) *stripe.CheckoutSessionLineItemParams {
	if item.PriceID != "" {
		return &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(item.PriceID),
			Quantity: stripe.Int64(item.Quantity),
		}
	}

	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(item.Name),
	}
	if item.Description != "" {
		product.Description = stripe.String(item.Description)
	}
	if len(item.Images) > 0 {
		product.Images = stripe.StringSlice(item.Images)
	}

	return &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:    stripe.String(currency),
			ProductData: product,
			UnitAmount:  stripe.Int64(item.UnitAmount),
		},
		Quantity: stripe.Int64(item.Quantity),
	}
}

func convertCheckoutSession(session *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:            session.ID,
		URL:           session.URL,
		Mode:          string(session.Mode),
		Status:        string(session.Status),
		PaymentStatus: string(session.PaymentStatus),
		CustomerEmail: session.CustomerEmail,
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		Metadata:      session.Metadata,
	}
	if out.CustomerEmail == "" && session.CustomerDetails != nil {
		out.CustomerEmail = session.CustomerDetails.Email
	}
	if session.Customer != nil {
		out.CustomerID = session.Customer.ID
	}
	if session.PaymentIntent != nil {
		out.PaymentIntentID = session.PaymentIntent.ID
	}
	if session.Subscription != nil {
		out.SubscriptionID = session.Subscription.ID
	}
	if out.Metadata == nil {
		out.Metadata = map[string]string{}
	}
	return out
}
