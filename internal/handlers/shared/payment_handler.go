package handlers

import (
	"io"
	"net/http"
	"strings"

	"artisan/internal/services"
	"artisan/internal/utils"
	"artisan/internal/validators"

	"github.com/gin-gonic/gin"
)

// maxWebhookBodyBytes matches the largest event body Stripe sends.
const maxWebhookBodyBytes = 65536

type PaymentHandler struct {
	checkoutService services.CheckoutService
	webhookService  services.PaymentWebhookService
	defaultCountry  string
}

func NewPaymentHandler(checkoutService services.CheckoutService, webhookService services.PaymentWebhookService, defaultCountry string) *PaymentHandler {
	return &PaymentHandler{
		checkoutService: checkoutService,
		webhookService:  webhookService,
		defaultCountry:  defaultCountry,
	}
}

// CreateCheckoutSession persists a pending order and returns the hosted
// checkout URL.
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	var req validators.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateCheckout(&req, h.defaultCountry); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	result, err := h.checkoutService.CreateCheckoutSession(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) CreateSubscriptionCheckout(c *gin.Context) {
	var req validators.SubscriptionCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateSubscriptionCheckout(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	result, err := h.checkoutService.CreateSubscriptionCheckout(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) GetSessionStatus(c *gin.Context) {
	status, err := h.checkoutService.GetSessionStatus(c.Request.Context(), strings.TrimSpace(c.Param("session_id")))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// StripeWebhook verifies the signature over the raw body before anything
// is parsed.
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		utils.BadRequestResponse(c, "Error reading request body")
		return
	}

	result, err := h.webhookService.HandleStripeWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true, "outcome": result.Outcome})
}
