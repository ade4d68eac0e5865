package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artisan/internal/config"
	"artisan/internal/metrics"
	"artisan/internal/models"
	"artisan/internal/repositories/interfaces"
	"artisan/internal/utils"
	"artisan/internal/validators"
	"artisan/pkg/logger"
	"artisan/pkg/payment"
)

const (
	shippingLineName    = "Gastos de envío"
	maxReferenceRetries = 3
)

type CheckoutResult struct {
	SessionID          string `json:"sessionId"`
	URL                string `json:"url"`
	OrderNumber        string `json:"order_number,omitempty"`
	SubscriptionNumber string `json:"subscription_number,omitempty"`
}

type SessionStatus struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	CustomerEmail string `json:"customer_email"`
}

type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, req *validators.CheckoutRequest) (*CheckoutResult, error)
	CreateSubscriptionCheckout(ctx context.Context, req *validators.SubscriptionCheckoutRequest) (*CheckoutResult, error)
	GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
}

type checkoutService struct {
	orderRepo        interfaces.OrderRepository
	subscriptionRepo interfaces.SubscriptionRepository
	couponService    CouponService
	provider         payment.PaymentProvider
	currency         string
	frontendURL      string
	shop             *config.ShopConfig
	now              func() time.Time
	metrics          *metrics.Metrics
	logger           *logger.Logger
}

func NewCheckoutService(
	orderRepo interfaces.OrderRepository,
	subscriptionRepo interfaces.SubscriptionRepository,
	couponService CouponService,
	provider payment.PaymentProvider,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *logger.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:        orderRepo,
		subscriptionRepo: subscriptionRepo,
		couponService:    couponService,
		provider:         provider,
		currency:         cfg.Payment.Currency,
		frontendURL:      strings.TrimRight(cfg.App.FrontendURL, "/"),
		shop:             cfg.Shop,
		now:              time.Now,
		metrics:          m,
		logger:           logger,
	}
}

// CreateCheckoutSession persists a pending order and opens a hosted payment
// session for it. A coupon, when given, is checked here and redeemed once
// the payment is confirmed.
func (s *checkoutService) CreateCheckoutSession(ctx context.Context, req *validators.CheckoutRequest) (*CheckoutResult, error) {
	if len(req.Items) == 0 {
		return nil, utils.NewValidationError("No items in cart")
	}
	if req.CustomerInfo == nil {
		return nil, utils.NewValidationError("customer_info is required")
	}

	discountPercent := 0
	if req.CouponCode != "" {
		coupon, err := s.couponService.ValidateCoupon(ctx, req.CouponCode, req.CustomerInfo.Email)
		if err != nil {
			if IsCouponError(err) {
				return nil, utils.NewValidationError(err.Error())
			}
			return nil, utils.NewInternalError(err)
		}
		discountPercent = coupon.DiscountPercent
	}

	order, lineItems := s.buildOrder(req, discountPercent)
	if err := s.createOrder(ctx, order); err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, &payment.CheckoutSessionRequest{
		Mode:          payment.ModePayment,
		Currency:      s.currency,
		LineItems:     lineItems,
		SuccessURL:    s.frontendURL + "/order-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.frontendURL + "/checkout?cancelled=true",
		CustomerEmail: order.CustomerEmail,
		Metadata: map[string]string{
			"order_id":     order.ID.Hex(),
			"order_number": order.OrderNumber,
		},
		IdempotencyKey: order.OrderNumber,
	})
	if err != nil {
		s.logAbandonedOrder(ctx, order.OrderNumber, err)
		return nil, utils.NewUpstreamError("Failed to create checkout session", err)
	}

	if err := s.orderRepo.SetCheckoutSession(ctx, order.OrderNumber, session.ID); err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.metrics.CheckoutSession(payment.ModePayment)
	s.logger.WithContext(ctx).LogOrderEvent(order.OrderNumber, "checkout_created", map[string]interface{}{
		"session_id": session.ID,
		"total":      order.Total,
		"items":      len(order.Items),
		"coupon":     order.CouponCode,
	})

	return &CheckoutResult{
		SessionID:   session.ID,
		URL:         session.URL,
		OrderNumber: order.OrderNumber,
	}, nil
}

// buildOrder prices the cart. Discounts are applied to each unit price so
// that every line sent to the processor stays positive.
func (s *checkoutService) buildOrder(req *validators.CheckoutRequest, discountPercent int) (*models.Order, []payment.LineItem) {
	info := req.CustomerInfo
	now := s.now()

	order := &models.Order{
		CustomerEmail:      info.Email,
		CustomerName:       info.Name,
		CustomerPhone:      info.Phone,
		ShippingAddress:    info.Address,
		ShippingCity:       info.City,
		ShippingPostalCode: info.PostalCode,
		ShippingCountry:    info.Country,
		CustomerNotes:      info.Notes,
		Currency:           s.currency,
		PaymentStatus:      models.PaymentStatusPending,
		OrderStatus:        models.OrderStatusProcessing,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if discountPercent > 0 {
		order.CouponCode = req.CouponCode
	}

	var subtotalCents, discountedCents int64
	lineItems := make([]payment.LineItem, 0, len(req.Items)+1)
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Weight:   item.Weight,
			Image:    item.Image,
		})

		unit := utils.ToMinorUnits(item.Price)
		charged := unit
		if discountPercent > 0 {
			charged = (unit*int64(100-discountPercent) + 50) / 100
		}
		subtotalCents += unit * item.Quantity
		discountedCents += charged * item.Quantity

		line := payment.LineItem{
			Name:        item.Name,
			Description: item.Weight,
			UnitAmount:  charged,
			Quantity:    item.Quantity,
		}
		if item.Image != "" {
			line.Images = []string{item.Image}
		}
		lineItems = append(lineItems, line)
	}

	shippingCents := s.shippingCost(discountedCents)
	if shippingCents > 0 {
		lineItems = append(lineItems, payment.LineItem{
			Name:       shippingLineName,
			UnitAmount: shippingCents,
			Quantity:   1,
		})
	}

	order.Subtotal = utils.FromMinorUnits(subtotalCents)
	order.Discount = utils.FromMinorUnits(subtotalCents - discountedCents)
	order.ShippingCost = utils.FromMinorUnits(shippingCents)
	order.Total = utils.FromMinorUnits(discountedCents + shippingCents)
	return order, lineItems
}

func (s *checkoutService) shippingCost(subtotalCents int64) int64 {
	if s.shop == nil || s.shop.ShippingFlatRate <= 0 {
		return 0
	}
	if s.shop.FreeShippingThreshold > 0 && subtotalCents >= utils.ToMinorUnits(s.shop.FreeShippingThreshold) {
		return 0
	}
	return utils.ToMinorUnits(s.shop.ShippingFlatRate)
}

func (s *checkoutService) createOrder(ctx context.Context, order *models.Order) error {
	for attempt := 0; attempt < maxReferenceRetries; attempt++ {
		order.OrderNumber = utils.GenerateReference(utils.OrderNumberPrefix, order.CreatedAt)
		err := s.orderRepo.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, interfaces.ErrDuplicateKey) {
			return utils.NewInternalError(err)
		}
	}
	return utils.NewInternalError(fmt.Errorf("failed to allocate order number after %d attempts", maxReferenceRetries))
}

// logAbandonedOrder records an order whose session could not be opened. The
// order stays pending; failed is only set by an operator.
func (s *checkoutService) logAbandonedOrder(ctx context.Context, orderNumber string, cause error) {
	s.logger.WithContext(ctx).WithError(cause).LogOrderEvent(orderNumber, "checkout_failed", nil)
}

func (s *checkoutService) CreateSubscriptionCheckout(ctx context.Context, req *validators.SubscriptionCheckoutRequest) (*CheckoutResult, error) {
	if req.Item == nil || req.CustomerInfo == nil {
		return nil, utils.NewValidationError("item and customer_info are required")
	}

	item := req.Item
	frequency := models.SubscriptionFrequency(item.SubscriptionFrequency)
	interval, ok := frequency.Interval()
	if !ok {
		return nil, utils.NewValidationError("Invalid subscription frequency")
	}
	quantity := item.Quantity
	if quantity < 1 {
		quantity = 1
	}

	now := s.now()
	sub := &models.Subscription{
		CustomerEmail: req.CustomerInfo.Email,
		CustomerName:  req.CustomerInfo.Name,
		ProductID:     item.ID,
		ProductName:   item.Name,
		ProductSlug:   item.Slug,
		Quantity:      quantity,
		UnitPrice:     item.Price,
		Currency:      s.currency,
		Frequency:     frequency,
		Status:        models.SubscriptionStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	priceID, err := s.provider.CreateRecurringPrice(ctx, &payment.RecurringPriceRequest{
		ProductName:   fmt.Sprintf("%s - Suscripción %s", item.Name, frequency.Label()),
		UnitAmount:    utils.ToMinorUnits(item.Price),
		Currency:      s.currency,
		Interval:      interval.Unit,
		IntervalCount: interval.Count,
		Metadata: map[string]string{
			"product_id": item.ID,
			"frequency":  string(frequency),
		},
	})
	if err != nil {
		return nil, utils.NewUpstreamError("Failed to create subscription price", err)
	}
	sub.StripePriceID = priceID

	if err := s.createSubscription(ctx, sub); err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"subscription_id":     sub.ID.Hex(),
		"subscription_number": sub.SubscriptionNumber,
	}
	session, err := s.provider.CreateCheckoutSession(ctx, &payment.CheckoutSessionRequest{
		Mode:                 payment.ModeSubscription,
		Currency:             s.currency,
		LineItems:            []payment.LineItem{{PriceID: priceID, Quantity: quantity}},
		SuccessURL:           s.frontendURL + "/subscription-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:            s.frontendURL + "/checkout?cancelled=true",
		CustomerEmail:        sub.CustomerEmail,
		Metadata:             metadata,
		SubscriptionMetadata: metadata,
		IdempotencyKey:       sub.SubscriptionNumber,
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).LogSubscriptionEvent(sub.SubscriptionNumber, "checkout_failed", nil)
		return nil, utils.NewUpstreamError("Failed to create checkout session", err)
	}

	if err := s.subscriptionRepo.SetCheckoutSession(ctx, sub.SubscriptionNumber, session.ID, priceID); err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.metrics.CheckoutSession(payment.ModeSubscription)
	s.logger.WithContext(ctx).LogSubscriptionEvent(sub.SubscriptionNumber, "checkout_created", map[string]interface{}{
		"session_id": session.ID,
		"frequency":  sub.Frequency,
		"price_id":   priceID,
	})

	return &CheckoutResult{
		SessionID:          session.ID,
		URL:                session.URL,
		SubscriptionNumber: sub.SubscriptionNumber,
	}, nil
}

func (s *checkoutService) createSubscription(ctx context.Context, sub *models.Subscription) error {
	for attempt := 0; attempt < maxReferenceRetries; attempt++ {
		sub.SubscriptionNumber = utils.GenerateReference(utils.SubscriptionNumberPrefix, sub.CreatedAt)
		err := s.subscriptionRepo.Create(ctx, sub)
		if err == nil {
			return nil
		}
		if !errors.Is(err, interfaces.ErrDuplicateKey) {
			return utils.NewInternalError(err)
		}
	}
	return utils.NewInternalError(fmt.Errorf("failed to allocate subscription number after %d attempts", maxReferenceRetries))
}

func (s *checkoutService) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, utils.NewValidationError("session_id is required")
	}
	session, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, utils.NewUpstreamError("Failed to retrieve checkout session", err)
	}
	return &SessionStatus{
		Status:        session.Status,
		PaymentStatus: session.PaymentStatus,
		CustomerEmail: session.CustomerEmail,
	}, nil
}
