package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"artisan/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

func TestCouponLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/newsletter/subscribe", gin.H{"email": " Ana@Example.com "}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sub := decode(t, w)
	assert.Equal(t, true, sub["success"])
	code, _ := sub["coupon_code"].(string)
	require.True(t, strings.HasPrefix(code, "MIKELS10"), code)

	w = s.do(t, http.MethodGet, "/api/coupon/check/ana@example.com", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	check := decode(t, w)
	assert.Equal(t, true, check["has_coupon"])
	assert.Equal(t, code, check["coupon"].(map[string]interface{})["code"])

	w = s.do(t, http.MethodPost, "/api/coupon/validate", gin.H{"code": code, "email": "otro@example.com"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":false,"message":"Este cupón no está asociado a tu email"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/coupon/validate", gin.H{"code": code, "email": "ANA@example.com"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["valid"])

	w = s.do(t, http.MethodPost, "/api/coupon/use", gin.H{"code": code, "email": "ana@example.com"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["success"])

	w = s.do(t, http.MethodPost, "/api/coupon/use", gin.H{"code": code, "email": "ana@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Este cupón ya ha sido utilizado"}`, w.Body.String())
}

func TestCouponEndpointsRejectBadInput(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"malformed json", http.MethodPost, "/api/coupon/validate", "{", http.StatusBadRequest},
		{"missing code", http.MethodPost, "/api/coupon/validate", gin.H{"email": "a@b.com"}, http.StatusBadRequest},
		{"use without email", http.MethodPost, "/api/coupon/use", gin.H{"code": "MIKELS10ABCDEFGH"}, http.StatusBadRequest},
		{"check invalid email", http.MethodGet, "/api/coupon/check/not-an-email", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, false, decode(t, w)["success"])
		})
	}

	w := s.do(t, http.MethodGet, "/api/coupon/check/nadie@example.com", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"has_coupon":false}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/coupon/validate", gin.H{"code": "MIKELS10ZZZZZZZZ"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":false,"message":"Cupón no encontrado"}`, w.Body.String())
}

func TestCheckoutValidation(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/stripe/create-checkout-session", gin.H{"items": []gin.H{}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w)["code"])

	w = s.do(t, http.MethodPost, "/api/stripe/create-subscription-checkout", gin.H{
		"item":          gin.H{"id": "caja", "name": "Caja", "price": 30, "subscription_frequency": "daily"},
		"customer_info": gin.H{"email": "ana@example.com", "name": "Ana"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func signed(t *testing.T, payload string) map[string]string {
	t.Helper()
	header := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	}).Header
	return map[string]string{"Stripe-Signature": header}
}

func TestStripeWebhook(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()
	require.NoError(t, s.orders.Create(ctx, &models.Order{
		OrderNumber:   "MKL-20261017-0000ABCD",
		CustomerEmail: "ana@example.com",
		CustomerName:  "Ana",
		Items:         []models.OrderItem{{Name: "AOVE 500ml", Price: 12.5, Quantity: 2}},
		Subtotal:      25,
		Total:         25,
		Currency:      "eur",
		PaymentStatus: models.PaymentStatusPending,
		OrderStatus:   models.OrderStatusProcessing,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}))

	event := fmt.Sprintf(`{
		"id": "evt_h1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_h1",
			"object": "checkout.session",
			"mode": "payment",
			"payment_status": "paid",
			"payment_intent": "pi_h1",
			"metadata": {"order_number": %q}
		}}
	}`, "MKL-20261017-0000ABCD")

	w := s.do(t, http.MethodPost, "/api/stripe/webhook", event, map[string]string{"Stripe-Signature": "t=1,v1=deadbeef"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	order, err := s.orders.GetByOrderNumber(ctx, "MKL-20261017-0000ABCD")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)

	w = s.do(t, http.MethodPost, "/api/stripe/webhook", event, signed(t, event))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"received":true,"outcome":"processed"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/stripe/webhook", event, signed(t, event))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true,"outcome":"duplicate"}`, w.Body.String())

	headers := s.login(t)
	w = s.do(t, http.MethodGet, "/admin/orders/mkl-20261017-0000abcd", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, "paid", got["payment_status"])
	assert.Equal(t, "pi_h1", got["stripe_payment_intent_id"])

	w = s.do(t, http.MethodGet, "/admin/orders?payment_status=paid", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])
}

func TestOrderStatusUpdate(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, s.orders.Create(context.Background(), &models.Order{
		OrderNumber:   "MKL-20261017-00000001",
		CustomerEmail: "ana@example.com",
		PaymentStatus: models.PaymentStatusPaid,
		OrderStatus:   models.OrderStatusProcessing,
	}))
	headers := s.login(t)

	w := s.do(t, http.MethodPatch, "/admin/orders/MKL-20261017-00000001", gin.H{"payment_status": "paid"}, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPatch, "/admin/orders/MKL-20261017-00000001", gin.H{"payment_status": "refunded", "admin_notes": "devuelto"}, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	order := decode(t, w)["order"].(map[string]interface{})
	assert.Equal(t, "refunded", order["payment_status"])
	assert.Equal(t, "devuelto", order["admin_notes"])

	w = s.do(t, http.MethodPatch, "/admin/orders/MKL-NOPE", gin.H{"admin_notes": "x"}, headers)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/admin/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestForms(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/contact/send-message", gin.H{
		"name": "Ana", "email": "ana@example.com", "message": "Hola",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"message":"Mensaje enviado correctamente"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/experience/workshop-visit", gin.H{"nombre": "Ana", "email": "ana@example.com"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Solicitud de visita enviada correctamente", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/api/notification/notify-me", gin.H{
		"product_name": "AOVE Temprano", "customer_name": "Ana", "customer_email": "no-email",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	horeca := gin.H{
		"establishmentName": "Bar Olivo", "establishmentType": "Restaurante",
		"contactName": "Luis", "phone": "+34600111222", "email": "luis@olivo.es",
		"address": "Calle Mayor 1", "city": "Jaén", "postalCode": "23001", "province": "Jaén",
	}
	w = s.do(t, http.MethodPost, "/api/horeca/order", horeca, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Debes seleccionar al menos un producto", decode(t, w)["error"])

	horeca["quantity5L"] = 4
	horeca["subscribeNewsletter"] = true
	w = s.do(t, http.MethodPost, "/api/horeca/order", horeca, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["success"])

	w = s.do(t, http.MethodGet, "/api/coupon/check/luis@olivo.es", nil, nil)
	assert.Equal(t, true, decode(t, w)["has_coupon"])
}
