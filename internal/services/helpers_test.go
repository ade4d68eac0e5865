package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"artisan/internal/config"
	"artisan/internal/metrics"
	"artisan/internal/repositories/memory"
	"artisan/pkg/email"
	"artisan/pkg/logger"
	"artisan/pkg/payment"
	"artisan/pkg/sms"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_services"

var errProviderDown = errors.New("provider unavailable")

type fakeEmail struct {
	mu       sync.Mutex
	sent     []*email.Message
	contacts []*email.Contact
	failFor  map[string]bool // recipient -> fail
	err      error
}

func newFakeEmail() *fakeEmail {
	return &fakeEmail{failFor: make(map[string]bool)}
}

func (f *fakeEmail) SendEmail(ctx context.Context, msg *email.Message) (*email.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, to := range msg.To {
		if f.failFor[to.Email] {
			return nil, errProviderDown
		}
	}
	f.sent = append(f.sent, msg)
	return &email.SendResult{MessageID: fmt.Sprintf("<msg-%d>", len(f.sent))}, nil
}

func (f *fakeEmail) UpsertContact(ctx context.Context, contact *email.Contact) (*email.ContactResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.contacts = append(f.contacts, contact)
	return &email.ContactResult{ID: int64(len(f.contacts)), Created: true}, nil
}

func (f *fakeEmail) Name() string { return "fake" }

// subjects returns the subjects of messages sent to recipient.
func (f *fakeEmail) subjects(recipient string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, msg := range f.sent {
		for _, to := range msg.To {
			if to.Email == recipient {
				out = append(out, msg.Subject)
			}
		}
	}
	return out
}

type fakeChat struct {
	mu       sync.Mutex
	messages []*sms.SMSRequest
}

func (f *fakeChat) SendSMS(ctx context.Context, req *sms.SMSRequest) (*sms.SMSResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, req)
	return &sms.SMSResponse{MessageID: "SM1", Status: "queued"}, nil
}

func (f *fakeChat) Name() string { return "fake" }

// fakePayment records checkout requests and verifies webhooks with the real
// Stripe signature check.
type fakePayment struct {
	mu       sync.Mutex
	requests []*payment.CheckoutSessionRequest
	prices   []*payment.RecurringPriceRequest
	sessions map[string]*payment.CheckoutSession
	err      error
	verifier *payment.StripeProvider
}

func newFakePayment() *fakePayment {
	return &fakePayment{
		sessions: make(map[string]*payment.CheckoutSession),
		verifier: payment.NewStripeProvider("sk_test_services", testWebhookSecret),
	}
}

func (f *fakePayment) CreateCheckoutSession(ctx context.Context, req *payment.CheckoutSessionRequest) (*payment.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	id := fmt.Sprintf("cs_test_%d", len(f.requests))
	session := &payment.CheckoutSession{
		ID:            id,
		URL:           "https://checkout.stripe.test/" + id,
		Mode:          req.Mode,
		Status:        "open",
		PaymentStatus: "unpaid",
		CustomerEmail: req.CustomerEmail,
		Metadata:      req.Metadata,
	}
	f.sessions[id] = session
	return session, nil
}

func (f *fakePayment) GetCheckoutSession(ctx context.Context, sessionID string) (*payment.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, errors.New("no such checkout.session")
	}
	return session, nil
}

func (f *fakePayment) CreateRecurringPrice(ctx context.Context, req *payment.RecurringPriceRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.prices = append(f.prices, req)
	return fmt.Sprintf("price_test_%d", len(f.prices)), nil
}

func (f *fakePayment) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*payment.WebhookEvent, error) {
	return f.verifier.ValidateWebhook(ctx, payload, signature)
}

func (f *fakePayment) lastRequest() *payment.CheckoutSessionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func sign(t *testing.T, payload string) string {
	t.Helper()
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	}).Header
}

func testConfig() *config.Config {
	return &config.Config{
		App: &config.AppConfig{
			Name:        "MikelsEarth",
			Environment: "test",
			FrontendURL: "https://shop.test",
		},
		Email: &config.EmailConfig{
			Provider:              "fake",
			NewsletterListID:      7,
			SenderEmail:           "noreply@shop.test",
			SenderName:            "Mikel's Earth",
			OwnerEmail:            "owner@shop.test",
			BlogNotificationEmail: "blog@shop.test",
		},
		SMS: &config.SMSConfig{Provider: "log", OwnerWhatsApp: "+34600000000"},
		Payment: &config.PaymentConfig{
			Stripe:   &config.StripeConfig{SecretKey: "sk_test_services", WebhookSecret: testWebhookSecret},
			Currency: "eur",
		},
		Storage: &config.StorageConfig{Provider: "none", MaxUploadBytes: 1 << 20, MaxImageWidth: 64},
		Blog: &config.BlogConfig{
			AdminUsername:  "admin",
			AdminPassword:  "s3cret",
			DefaultAuthor:  "Mikel's Earth",
			PublicPageSize: 10,
			AdminPageSize:  20,
			ExcerptLength:  40,
		},
		Shop: &config.ShopConfig{
			CouponPrefix:          "MIKELS10",
			CouponDiscountPercent: 10,
			FallbackCouponCode:    "BIENVENIDA10",
			ShippingFlatRate:      4.95,
			FreeShippingThreshold: 50,
			DefaultCountry:        "España",
		},
		Security: &config.SecurityConfig{
			JWTSecret:          "test-secret",
			JWTAccessTokenTTL:  24 * time.Hour,
			RateLimitPerMinute: 30,
		},
	}
}

type testEnv struct {
	cfg           *config.Config
	log           *logger.Logger
	metrics       *metrics.Metrics
	email         *fakeEmail
	chat          *fakeChat
	payment       *fakePayment
	notifications NotificationService
	coupons       CouponService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()
	log := logger.NewNop()
	m := metrics.New()
	mail := newFakeEmail()
	chat := &fakeChat{}

	notifications, err := NewNotificationService(mail, chat, cfg, m, log)
	require.NoError(t, err)

	return &testEnv{
		cfg:           cfg,
		log:           log,
		metrics:       m,
		email:         mail,
		chat:          chat,
		payment:       newFakePayment(),
		notifications: notifications,
		coupons:       NewCouponService(memory.NewCouponRepository(), cfg.Shop, m, log),
	}
}
