package services

import (
	"context"

	"artisan/internal/config"
	"artisan/internal/utils"
	"artisan/internal/validators"
	"artisan/pkg/logger"
)

type NewsletterResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	CouponCode     string `json:"coupon_code"`
	BrevoContactID *int64 `json:"brevo_contact_id"`
}

type NewsletterService interface {
	// Subscribe issues (or reuses) the subscriber's coupon, syncs the contact
	// and sends the welcome mail. Only coupon issuance can change the
	// response; delivery failures are logged.
	Subscribe(ctx context.Context, req *validators.NewsletterSubscribeRequest) (*NewsletterResult, error)
}

type newsletterService struct {
	coupons       CouponService
	notifications NotificationService
	fallbackCode  string
	logger        *logger.Logger
}

func NewNewsletterService(
	coupons CouponService,
	notifications NotificationService,
	cfg *config.ShopConfig,
	logger *logger.Logger,
) NewsletterService {
	return &newsletterService{
		coupons:       coupons,
		notifications: notifications,
		fallbackCode:  cfg.FallbackCouponCode,
		logger:        logger,
	}
}

func (s *newsletterService) Subscribe(ctx context.Context, req *validators.NewsletterSubscribeRequest) (*NewsletterResult, error) {
	log := s.logger.WithContext(ctx).WithField("email", utils.MaskEmail(req.Email))

	code := req.CouponCode
	discount := s.coupons.DefaultDiscount()
	if code == "" {
		coupon, err := s.coupons.CreateCoupon(ctx, req.Email, discount)
		if err != nil {
			log.WithError(err).Warn("Coupon issuance failed, using fallback code")
			code = s.fallbackCode
		} else {
			code = coupon.Code
			discount = coupon.DiscountPercent
		}
	}

	result := &NewsletterResult{
		Success:    true,
		Message:    "Subscription successful",
		CouponCode: code,
	}

	if contact, err := s.notifications.SyncContact(ctx, req.Email, req.Source); err == nil && contact != nil && contact.ID > 0 {
		id := contact.ID
		result.BrevoContactID = &id
	}

	s.notifications.NewsletterSubscribed(ctx, req.Email, req.Source)
	if err := s.notifications.NewsletterWelcome(ctx, req.Email, code, discount); err != nil {
		log.WithError(err).Warn("Welcome email not delivered")
	}

	log.WithField("source", req.Source).Info("Newsletter subscription")
	return result, nil
}
