package routes

import (
	handlers "artisan/internal/handlers/shared"

	"github.com/gin-gonic/gin"
)

// SetupShopRoutes mounts the storefront API. limit guards the public forms
// that send email or issue coupons.
func SetupShopRoutes(
	r *gin.RouterGroup,
	limit gin.HandlerFunc,
	couponHandler *handlers.CouponHandler,
	newsletterHandler *handlers.NewsletterHandler,
	paymentHandler *handlers.PaymentHandler,
	formsHandler *handlers.FormsHandler,
) {
	coupons := r.Group("/coupon")
	{
		coupons.POST("/validate", limit, couponHandler.ValidateCoupon)
		coupons.POST("/use", limit, couponHandler.UseCoupon)
		coupons.GET("/check/:email", limit, couponHandler.CheckCoupon)
	}

	r.POST("/newsletter/subscribe", limit, newsletterHandler.Subscribe)

	stripe := r.Group("/stripe")
	{
		stripe.POST("/create-checkout-session", limit, paymentHandler.CreateCheckoutSession)
		stripe.POST("/create-subscription-checkout", limit, paymentHandler.CreateSubscriptionCheckout)
		stripe.GET("/session-status/:session_id", paymentHandler.GetSessionStatus)

		// Signed by Stripe, no rate limit
		stripe.POST("/webhook", paymentHandler.StripeWebhook)
	}

	// Forms
	r.POST("/contact/send-message", limit, formsHandler.SendContactMessage)
	r.POST("/experience/workshop-visit", limit, formsHandler.RequestWorkshopVisit)
	r.POST("/notification/notify-me", limit, formsHandler.NotifyMe)
	r.POST("/horeca/order", limit, formsHandler.SubmitHorecaOrder)
}
