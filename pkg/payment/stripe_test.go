package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test"

const checkoutCompletedEvent = `{
  "id": "evt_1",
  "object": "event",
  "type": "checkout.session.completed",
  "created": 1767225600,
  "livemode": false,
  "data": {
    "object": {
      "id": "cs_test_1",
      "object": "checkout.session",
      "mode": "payment",
      "status": "complete",
      "payment_status": "paid",
      "amount_total": 2500,
      "currency": "eur",
      "payment_intent": "pi_1",
      "customer_details": {"email": "ana@example.com", "name": "Ana"},
      "metadata": {"order_number": "MKL-20260101-ABCDEF12"}
    }
  }
}`

func signedHeader(t *testing.T, payload string, secret string) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Header
}

func TestValidateWebhookAcceptsSignedEvent(t *testing.T) {
	provider := NewStripeProvider("sk_test_123", testWebhookSecret)

	event, err := provider.ValidateWebhook(context.Background(), []byte(checkoutCompletedEvent), signedHeader(t, checkoutCompletedEvent, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.EventID)
	assert.Equal(t, EventCheckoutSessionCompleted, event.EventType)

	session, err := event.CheckoutSession()
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, ModePayment, session.Mode)
	assert.Equal(t, "pi_1", session.PaymentIntentID)
	assert.Equal(t, "ana@example.com", session.CustomerEmail)
	assert.Equal(t, "MKL-20260101-ABCDEF12", session.Metadata["order_number"])
}

func TestValidateWebhookRejectsBadSignature(t *testing.T) {
	provider := NewStripeProvider("sk_test_123", testWebhookSecret)

	_, err := provider.ValidateWebhook(context.Background(), []byte(checkoutCompletedEvent), signedHeader(t, checkoutCompletedEvent, "whsec_other"))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = provider.ValidateWebhook(context.Background(), []byte(checkoutCompletedEvent), "")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateWebhookWithoutSecret(t *testing.T) {
	strict := NewStripeProvider("sk_test_123", "")
	_, err := strict.ValidateWebhook(context.Background(), []byte(checkoutCompletedEvent), "")
	assert.ErrorIs(t, err, ErrWebhookSecretMissing)

	lenient := NewStripeProvider("sk_test_123", "", WithUnsignedWebhooks(true))
	event, err := lenient.ValidateWebhook(context.Background(), []byte(checkoutCompletedEvent), "")
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.EventID)

	_, err = lenient.ValidateWebhook(context.Background(), []byte(`{"id":"evt_2"}`), "")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestWebhookEventDecodesSubscriptionAndInvoice(t *testing.T) {
	sub := &WebhookEvent{Raw: []byte(`{"id":"sub_1","customer":"cus_1","status":"canceled","metadata":{"subscription_number":"SUB-1"}}`)}
	decoded, err := sub.Subscription()
	require.NoError(t, err)
	assert.Equal(t, "sub_1", decoded.ID)
	assert.Equal(t, "cus_1", decoded.CustomerID)
	assert.Equal(t, "SUB-1", decoded.Metadata["subscription_number"])

	inv := &WebhookEvent{Raw: []byte(`{"id":"in_1","subscription":"sub_1","amount_paid":4500,"currency":"eur","customer_email":"ana@example.com"}`)}
	invoice, err := inv.Invoice()
	require.NoError(t, err)
	assert.Equal(t, "sub_1", invoice.SubscriptionID)
	assert.Equal(t, int64(4500), invoice.AmountPaid)
}

func TestCreateCheckoutSessionSendsLineItems(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_2","object":"checkout.session","url":"https://checkout.stripe.test/cs_test_2","mode":"payment","metadata":{"order_number":"MKL-2"}}`))
	}))
	defer server.Close()

	provider := NewStripeProvider("sk_test_123", testWebhookSecret, WithAPIURL(server.URL))
	session, err := provider.CreateCheckoutSession(context.Background(), &CheckoutSessionRequest{
		Mode:          ModePayment,
		Currency:      "eur",
		SuccessURL:    "https://shop.test/success",
		CancelURL:     "https://shop.test/cancel",
		CustomerEmail: "ana@example.com",
		Metadata:      map[string]string{"order_number": "MKL-2"},
		LineItems: []LineItem{
			{Name: "Aceite 5L", UnitAmount: 4500, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_2", session.ID)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_2", session.URL)

	assert.Equal(t, "payment", form.Get("mode"))
	assert.Equal(t, "MKL-2", form.Get("metadata[order_number]"))
	assert.Equal(t, "4500", form.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "Aceite 5L", form.Get("line_items[0][price_data][product_data][name]"))
	assert.Equal(t, "2", form.Get("line_items[0][quantity]"))
}

func TestCreateRecurringPrice(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/prices", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"price_1","object":"price"}`))
	}))
	defer server.Close()

	provider := NewStripeProvider("sk_test_123", testWebhookSecret, WithAPIURL(server.URL))
	id, err := provider.CreateRecurringPrice(context.Background(), &RecurringPriceRequest{
		ProductName:   "Aceite 5L",
		UnitAmount:    4500,
		Currency:      "eur",
		Interval:      "week",
		IntervalCount: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "price_1", id)
	assert.Equal(t, "week", form.Get("recurring[interval]"))
	assert.Equal(t, "2", form.Get("recurring[interval_count]"))
}
