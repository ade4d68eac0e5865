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
	"artisan/pkg/logger"
)

var (
	ErrCouponNotFound      = errors.New("Cupón no encontrado")
	ErrCouponAlreadyUsed   = errors.New("Este cupón ya ha sido utilizado")
	ErrCouponEmailMismatch = errors.New("Este cupón no está asociado a tu email")
	ErrCouponCodeExhausted = errors.New("could not generate a unique coupon code")
)

type CouponService interface {
	// CreateCoupon returns the existing coupon for email, or issues a new one.
	CreateCoupon(ctx context.Context, email string, discountPercent int) (*models.Coupon, error)
	ValidateCoupon(ctx context.Context, code, email string) (*models.Coupon, error)
	Redeem(ctx context.Context, coupon *models.Coupon) error
	// UseCoupon validates and redeems in one step.
	UseCoupon(ctx context.Context, code, email string) (*models.Coupon, error)
	GetCouponByEmail(ctx context.Context, email string) (*models.Coupon, error)
	DefaultDiscount() int
}

type couponService struct {
	couponRepo  interfaces.CouponRepository
	prefix      string
	discount    int
	maxAttempts int
	generate    func(prefix string) string
	now         func() time.Time
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

type CouponOption func(*couponService)

// WithCodeGenerator replaces the random code generator.
func WithCodeGenerator(generate func(prefix string) string) CouponOption {
	return func(s *couponService) { s.generate = generate }
}

func WithCouponClock(now func() time.Time) CouponOption {
	return func(s *couponService) { s.now = now }
}

func NewCouponService(
	couponRepo interfaces.CouponRepository,
	cfg *config.ShopConfig,
	m *metrics.Metrics,
	logger *logger.Logger,
	opts ...CouponOption,
) CouponService {
	s := &couponService{
		couponRepo:  couponRepo,
		prefix:      cfg.CouponPrefix,
		discount:    cfg.CouponDiscountPercent,
		maxAttempts: utils.MaxCouponAttempts,
		generate:    utils.GenerateCouponCode,
		now:         time.Now,
		metrics:     m,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *couponService) DefaultDiscount() int {
	return s.discount
}

func (s *couponService) CreateCoupon(ctx context.Context, email string, discountPercent int) (*models.Coupon, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, utils.NewValidationError("Email is required")
	}
	if discountPercent <= 0 {
		discountPercent = s.discount
	}

	existing, err := s.couponRepo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		coupon := &models.Coupon{
			Code:            s.generate(s.prefix),
			Email:           email,
			DiscountPercent: discountPercent,
			CreatedAt:       s.now().UTC(),
		}

		err := s.couponRepo.Create(ctx, coupon)
		if err == nil {
			s.metrics.CouponIssued()
			s.logger.WithContext(ctx).WithFields(map[string]interface{}{
				"coupon_code": coupon.Code,
				"email":       utils.MaskEmail(email),
				"attempt":     attempt,
			}).Info("Coupon issued")
			return coupon, nil
		}

		switch interfaces.DuplicateField(err) {
		case "email":
			// Lost a race with a concurrent signup for the same address.
			return s.couponRepo.GetByEmail(ctx, email)
		case "code":
			continue
		default:
			return nil, fmt.Errorf("failed to create coupon: %w", err)
		}
	}

	return nil, ErrCouponCodeExhausted
}

func (s *couponService) ValidateCoupon(ctx context.Context, code, email string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	if coupon.Used {
		return nil, ErrCouponAlreadyUsed
	}

	if email = utils.NormalizeEmail(email); email != "" && !strings.EqualFold(email, coupon.Email) {
		return nil, ErrCouponEmailMismatch
	}

	return coupon, nil
}

func (s *couponService) Redeem(ctx context.Context, coupon *models.Coupon) error {
	usedAt := s.now().UTC()
	if err := s.couponRepo.MarkUsed(ctx, coupon.Code, usedAt); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrCouponAlreadyUsed
		}
		return fmt.Errorf("failed to redeem coupon: %w", err)
	}

	coupon.Used = true
	coupon.UsedAt = &usedAt
	s.metrics.CouponRedeemed()
	s.logger.WithContext(ctx).WithField("coupon_code", coupon.Code).Info("Coupon redeemed")
	return nil
}

func (s *couponService) UseCoupon(ctx context.Context, code, email string) (*models.Coupon, error) {
	coupon, err := s.ValidateCoupon(ctx, code, email)
	if err != nil {
		return nil, err
	}
	if err := s.Redeem(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) GetCouponByEmail(ctx context.Context, email string) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return coupon, nil
}

// IsCouponError reports whether err is one of the coupon validation reasons.
func IsCouponError(err error) bool {
	return errors.Is(err, ErrCouponNotFound) ||
		errors.Is(err, ErrCouponAlreadyUsed) ||
		errors.Is(err, ErrCouponEmailMismatch)
}
