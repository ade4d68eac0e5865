package services

import (
	"context"
	"testing"

	"artisan/internal/metrics"
	"artisan/internal/models"
	"artisan/internal/repositories/memory"
	"artisan/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCouponService(t *testing.T, opts ...CouponOption) CouponService {
	t.Helper()
	return NewCouponService(memory.NewCouponRepository(), testConfig().Shop, metrics.New(), logger.NewNop(), opts...)
}

func TestCreateCouponIsIdempotentPerEmail(t *testing.T) {
	svc := newCouponService(t)
	ctx := context.Background()

	first, err := svc.CreateCoupon(ctx, "ana@example.com", 10)
	require.NoError(t, err)
	assert.Regexp(t, `^MIKELS10-[A-Z0-9]{8}$`, first.Code)

	second, err := svc.CreateCoupon(ctx, "  ANA@example.com ", 10)
	require.NoError(t, err)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.ID, second.ID)
}

func TestCreateCouponRetriesOnCodeCollision(t *testing.T) {
	codes := []string{"MIKELS10-AAAAAAAA", "MIKELS10-AAAAAAAA", "MIKELS10-BBBBBBBB"}
	calls := 0
	svc := newCouponService(t, WithCodeGenerator(func(string) string {
		code := codes[calls]
		calls++
		return code
	}))
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, "one@example.com", 10)
	require.NoError(t, err)

	coupon, err := svc.CreateCoupon(ctx, "two@example.com", 10)
	require.NoError(t, err)
	assert.Equal(t, "MIKELS10-BBBBBBBB", coupon.Code)
	assert.Equal(t, 3, calls)
}

func TestCreateCouponExhaustsRetries(t *testing.T) {
	svc := newCouponService(t, WithCodeGenerator(func(string) string { return "MIKELS10-SAMECODE" }))
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, "first@example.com", 10)
	require.NoError(t, err)

	_, err = svc.CreateCoupon(ctx, "second@example.com", 10)
	assert.ErrorIs(t, err, ErrCouponCodeExhausted)
}

func TestValidateCoupon(t *testing.T) {
	svc := newCouponService(t)
	ctx := context.Background()

	coupon, err := svc.CreateCoupon(ctx, "a@x.com", 10)
	require.NoError(t, err)

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.ValidateCoupon(ctx, "MIKELS10-NOPE0000", "")
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})

	t.Run("email match is case-insensitive", func(t *testing.T) {
		got, err := svc.ValidateCoupon(ctx, coupon.Code, "A@X.COM")
		require.NoError(t, err)
		assert.Equal(t, coupon.Code, got.Code)
	})

	t.Run("lowercase code", func(t *testing.T) {
		_, err := svc.ValidateCoupon(ctx, " "+coupon.Code+" ", "")
		assert.NoError(t, err)
	})

	t.Run("email mismatch", func(t *testing.T) {
		_, err := svc.ValidateCoupon(ctx, coupon.Code, "b@x.com")
		assert.ErrorIs(t, err, ErrCouponEmailMismatch)
	})
}

func TestRedeemIsOneWay(t *testing.T) {
	svc := newCouponService(t)
	ctx := context.Background()

	coupon, err := svc.CreateCoupon(ctx, "a@x.com", 10)
	require.NoError(t, err)

	used, err := svc.UseCoupon(ctx, coupon.Code, "a@x.com")
	require.NoError(t, err)
	assert.True(t, used.Used)
	require.NotNil(t, used.UsedAt)

	for _, email := range []string{"a@x.com", "", "other@x.com"} {
		_, err := svc.ValidateCoupon(ctx, coupon.Code, email)
		assert.ErrorIs(t, err, ErrCouponAlreadyUsed, "email %q", email)
	}

	assert.ErrorIs(t, svc.Redeem(ctx, &models.Coupon{Code: coupon.Code}), ErrCouponAlreadyUsed)
}

func TestGetCouponByEmail(t *testing.T) {
	svc := newCouponService(t)
	ctx := context.Background()

	_, err := svc.GetCouponByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrCouponNotFound)

	created, err := svc.CreateCoupon(ctx, "somebody@example.com", 15)
	require.NoError(t, err)
	assert.Equal(t, 15, created.DiscountPercent)

	got, err := svc.GetCouponByEmail(ctx, "SOMEBODY@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.Code, got.Code)
}
