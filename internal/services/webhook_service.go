package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artisan/internal/metrics"
	"artisan/internal/models"
	"artisan/internal/repositories/interfaces"
	"artisan/internal/utils"
	"artisan/pkg/logger"
	"artisan/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Webhook outcomes reported to the caller and to metrics.
const (
	WebhookProcessed = "processed"
	WebhookDuplicate = "duplicate"
	WebhookIgnored   = "ignored"
	WebhookRejected  = "rejected"
	WebhookFailed    = "failed"
)

const webhookSourceStripe = "stripe"

type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Outcome   string `json:"outcome"`
}

type PaymentWebhookService interface {
	// HandleStripeWebhook verifies and applies a provider event. Re-delivered
	// events are acknowledged without re-applying their effects.
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error)
}

type paymentWebhookService struct {
	provider         payment.PaymentProvider
	orderRepo        interfaces.OrderRepository
	subscriptionRepo interfaces.SubscriptionRepository
	couponService    CouponService
	notifications    NotificationService
	cache            CacheService
	now              func() time.Time
	metrics          *metrics.Metrics
	logger           *logger.Logger
}

// NewPaymentWebhookService builds the webhook state machine. cache may be
// nil, in which case only the record state guards against replays.
func NewPaymentWebhookService(
	provider payment.PaymentProvider,
	orderRepo interfaces.OrderRepository,
	subscriptionRepo interfaces.SubscriptionRepository,
	couponService CouponService,
	notifications NotificationService,
	cache CacheService,
	m *metrics.Metrics,
	logger *logger.Logger,
) PaymentWebhookService {
	return &paymentWebhookService{
		provider:         provider,
		orderRepo:        orderRepo,
		subscriptionRepo: subscriptionRepo,
		couponService:    couponService,
		notifications:    notifications,
		cache:            cache,
		now:              time.Now,
		metrics:          m,
		logger:           logger,
	}
}

func (s *paymentWebhookService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	log := s.logger.WithContext(ctx)

	event, err := s.provider.ValidateWebhook(ctx, payload, signature)
	if err != nil {
		s.metrics.WebhookEvent(webhookSourceStripe, "unknown", WebhookRejected)
		if errors.Is(err, payment.ErrInvalidPayload) {
			log.WithError(err).Warn("Rejected malformed Stripe webhook")
			return nil, utils.NewValidationError("Invalid payload")
		}
		log.LogSecurityEvent("stripe_webhook_rejected", "high", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, utils.NewSignatureInvalidError(err)
	}

	result := &WebhookResult{EventID: event.EventID, EventType: event.EventType}

	claimed, key := s.claimEvent(ctx, event.EventID)
	if !claimed {
		result.Outcome = WebhookDuplicate
		s.metrics.WebhookEvent(webhookSourceStripe, event.EventType, result.Outcome)
		log.WithField("event_id", event.EventID).Info("Skipping already processed Stripe event")
		return result, nil
	}

	outcome, err := s.dispatch(ctx, event)
	if err != nil {
		s.releaseEvent(ctx, key)
		s.metrics.WebhookEvent(webhookSourceStripe, event.EventType, WebhookFailed)
		log.WithError(err).WithFields(map[string]interface{}{
			"event_id":   event.EventID,
			"event_type": event.EventType,
		}).Error("Failed to process Stripe webhook")
		return nil, utils.NewInternalError(err)
	}

	result.Outcome = outcome
	s.metrics.WebhookEvent(webhookSourceStripe, event.EventType, outcome)
	return result, nil
}

// claimEvent records the event id so concurrent or repeated deliveries are
// skipped. Cache failures fall through to processing.
func (s *paymentWebhookService) claimEvent(ctx context.Context, eventID string) (bool, string) {
	if s.cache == nil || eventID == "" {
		return true, ""
	}
	key := stripeEventKeyPrefix + eventID
	ok, err := s.cache.SetNX(ctx, key, s.now().Unix(), stripeEventCacheTTL)
	if err != nil {
		s.logger.WithError(err).WithField("event_id", eventID).Warn("Stripe event dedupe unavailable")
		return true, ""
	}
	return ok, key
}

func (s *paymentWebhookService) releaseEvent(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to release Stripe event claim")
	}
}

func (s *paymentWebhookService) dispatch(ctx context.Context, event *payment.WebhookEvent) (string, error) {
	switch event.EventType {
	case payment.EventCheckoutSessionCompleted:
		session, err := event.CheckoutSession()
		if err != nil {
			return "", err
		}
		switch session.Mode {
		case payment.ModePayment:
			return s.handleOrderPaid(ctx, event.EventID, session)
		case payment.ModeSubscription:
			return s.handleSubscriptionActivated(ctx, session)
		}
		return WebhookIgnored, nil

	case payment.EventInvoicePaymentSucceeded:
		invoice, err := event.Invoice()
		if err != nil {
			return "", err
		}
		s.logger.WithContext(ctx).LogPaymentEvent(event.EventID, "invoice_paid",
			utils.FromMinorUnits(invoice.AmountPaid), invoice.Currency)
		return WebhookProcessed, nil

	case payment.EventSubscriptionDeleted:
		object, err := event.Subscription()
		if err != nil {
			return "", err
		}
		return s.handleSubscriptionCancelled(ctx, object)
	}

	s.logger.WithField("event_type", event.EventType).Debug("Ignoring unhandled Stripe event")
	return WebhookIgnored, nil
}

func (s *paymentWebhookService) handleOrderPaid(ctx context.Context, eventID string, session *payment.CheckoutSession) (string, error) {
	order, err := s.findOrder(ctx, session)
	if errors.Is(err, interfaces.ErrNotFound) {
		s.logger.WithContext(ctx).WithFields(map[string]interface{}{
			"session_id":   session.ID,
			"order_number": session.Metadata["order_number"],
		}).Warn("Checkout completed for unknown order")
		return WebhookIgnored, nil
	}
	if err != nil {
		return "", err
	}

	paidAt := s.now().UTC()
	changed, err := s.orderRepo.MarkPaid(ctx, order.OrderNumber, session.PaymentIntentID, paidAt)
	if err != nil {
		return "", fmt.Errorf("failed to mark order %s paid: %w", order.OrderNumber, err)
	}
	if !changed {
		s.logger.WithContext(ctx).LogOrderEvent(order.OrderNumber, "already_paid", nil)
		return WebhookDuplicate, nil
	}

	order.PaymentStatus = models.PaymentStatusPaid
	order.PaidAt = &paidAt
	order.StripePaymentIntentID = session.PaymentIntentID

	s.logger.WithContext(ctx).LogPaymentEvent(eventID, "order_paid", order.Total, order.Currency)
	s.redeemOrderCoupon(ctx, order)
	s.notifications.OrderPaid(ctx, order)
	return WebhookProcessed, nil
}

func (s *paymentWebhookService) findOrder(ctx context.Context, session *payment.CheckoutSession) (*models.Order, error) {
	if number := session.Metadata["order_number"]; number != "" {
		order, err := s.orderRepo.GetByOrderNumber(ctx, number)
		if !errors.Is(err, interfaces.ErrNotFound) {
			return order, err
		}
	}
	if id, err := primitive.ObjectIDFromHex(session.Metadata["order_id"]); err == nil {
		order, err := s.orderRepo.GetByID(ctx, id)
		if !errors.Is(err, interfaces.ErrNotFound) {
			return order, err
		}
	}
	if session.ID == "" {
		return nil, interfaces.ErrNotFound
	}
	return s.orderRepo.GetByCheckoutSession(ctx, session.ID)
}

// redeemOrderCoupon burns the coupon attached to a paid order. A coupon that
// was redeemed elsewhere in the meantime does not undo the payment.
func (s *paymentWebhookService) redeemOrderCoupon(ctx context.Context, order *models.Order) {
	if order.CouponCode == "" || s.couponService == nil {
		return
	}
	if _, err := s.couponService.UseCoupon(ctx, order.CouponCode, order.CustomerEmail); err != nil {
		s.logger.WithContext(ctx).WithError(err).LogOrderEvent(order.OrderNumber, "coupon_redeem_failed", map[string]interface{}{
			"coupon": order.CouponCode,
		})
	}
}

func (s *paymentWebhookService) handleSubscriptionActivated(ctx context.Context, session *payment.CheckoutSession) (string, error) {
	sub, err := s.findSubscription(ctx, session.Metadata)
	if errors.Is(err, interfaces.ErrNotFound) {
		s.logger.WithContext(ctx).WithFields(map[string]interface{}{
			"session_id":          session.ID,
			"subscription_number": session.Metadata["subscription_number"],
		}).Warn("Checkout completed for unknown subscription")
		return WebhookIgnored, nil
	}
	if err != nil {
		return "", err
	}

	activatedAt := s.now().UTC()
	changed, err := s.subscriptionRepo.Activate(ctx, sub.SubscriptionNumber, &models.SubscriptionActivation{
		StripeSubscriptionID: session.SubscriptionID,
		StripeCustomerID:     session.CustomerID,
		ActivatedAt:          activatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to activate subscription %s: %w", sub.SubscriptionNumber, err)
	}
	if !changed {
		s.logger.WithContext(ctx).LogSubscriptionEvent(sub.SubscriptionNumber, "already_active", nil)
		return WebhookDuplicate, nil
	}

	if updated, err := s.subscriptionRepo.GetBySubscriptionNumber(ctx, sub.SubscriptionNumber); err == nil {
		sub = updated
	}
	s.logger.WithContext(ctx).LogSubscriptionEvent(sub.SubscriptionNumber, "activated", map[string]interface{}{
		"stripe_subscription_id": session.SubscriptionID,
	})
	s.notifications.SubscriptionActivated(ctx, sub)
	return WebhookProcessed, nil
}

func (s *paymentWebhookService) findSubscription(ctx context.Context, metadata map[string]string) (*models.Subscription, error) {
	if number := metadata["subscription_number"]; number != "" {
		sub, err := s.subscriptionRepo.GetBySubscriptionNumber(ctx, number)
		if !errors.Is(err, interfaces.ErrNotFound) {
			return sub, err
		}
	}
	id, err := primitive.ObjectIDFromHex(metadata["subscription_id"])
	if err != nil {
		return nil, interfaces.ErrNotFound
	}
	return s.subscriptionRepo.GetByID(ctx, id)
}

func (s *paymentWebhookService) handleSubscriptionCancelled(ctx context.Context, object *payment.SubscriptionObject) (string, error) {
	sub, changed, err := s.subscriptionRepo.Cancel(ctx, object.ID, s.now().UTC())
	if errors.Is(err, interfaces.ErrNotFound) {
		s.logger.WithContext(ctx).WithField("stripe_subscription_id", object.ID).Warn("Cancellation for unknown subscription")
		return WebhookIgnored, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to cancel subscription %s: %w", object.ID, err)
	}
	if !changed {
		return WebhookDuplicate, nil
	}

	s.logger.WithContext(ctx).LogSubscriptionEvent(sub.SubscriptionNumber, "cancelled", map[string]interface{}{
		"stripe_subscription_id": object.ID,
	})
	s.notifications.SubscriptionCancelled(ctx, sub)
	return WebhookProcessed, nil
}
