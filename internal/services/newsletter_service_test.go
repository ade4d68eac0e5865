package services

import (
	"context"
	"testing"

	"artisan/internal/repositories/memory"
	"artisan/internal/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeIssuesCouponAndWelcomes(t *testing.T) {
	env := newTestEnv(t)
	svc := NewNewsletterService(env.coupons, env.notifications, env.cfg.Shop, env.log)
	ctx := context.Background()

	result, err := svc.Subscribe(ctx, &validators.NewsletterSubscribeRequest{Email: "ana@example.com", Source: "footer"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Subscription successful", result.Message)
	assert.Regexp(t, `^MIKELS10-`, result.CouponCode)
	require.NotNil(t, result.BrevoContactID)
	assert.EqualValues(t, 1, *result.BrevoContactID)

	require.Len(t, env.email.contacts, 1)
	assert.Equal(t, []int64{7}, env.email.contacts[0].ListIDs)
	assert.Equal(t, "FOOTER", env.email.contacts[0].Attributes["ORIGEN"])

	assert.Equal(t, []string{"🌿 Bienvenido a la familia Mikel's Earth + Tu regalo (10% descuento)"}, env.email.subjects("ana@example.com"))
	assert.Equal(t, []string{"📧 Nueva suscripción al newsletter"}, env.email.subjects("owner@shop.test"))

	again, err := svc.Subscribe(ctx, &validators.NewsletterSubscribeRequest{Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, result.CouponCode, again.CouponCode)
}

func TestSubscribeKeepsClientCode(t *testing.T) {
	env := newTestEnv(t)
	svc := NewNewsletterService(env.coupons, env.notifications, env.cfg.Shop, env.log)

	result, err := svc.Subscribe(context.Background(), &validators.NewsletterSubscribeRequest{
		Email:      "luis@example.com",
		CouponCode: "MIKELS10-CLIENT01",
	})
	require.NoError(t, err)
	assert.Equal(t, "MIKELS10-CLIENT01", result.CouponCode)

	_, err = env.coupons.GetCouponByEmail(context.Background(), "luis@example.com")
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestSubscribeFallsBackWhenIssuanceFails(t *testing.T) {
	env := newTestEnv(t)
	coupons := NewCouponService(memory.NewCouponRepository(), env.cfg.Shop, env.metrics, env.log,
		WithCodeGenerator(func(string) string { return "MIKELS10-TAKEN000" }))
	ctx := context.Background()
	_, err := coupons.CreateCoupon(ctx, "first@example.com", 10)
	require.NoError(t, err)

	svc := NewNewsletterService(coupons, env.notifications, env.cfg.Shop, env.log)
	result, err := svc.Subscribe(ctx, &validators.NewsletterSubscribeRequest{Email: "second@example.com"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "BIENVENIDA10", result.CouponCode)
}

func TestSubscribeSucceedsWhenProviderDown(t *testing.T) {
	env := newTestEnv(t)
	env.email.err = errProviderDown
	svc := NewNewsletterService(env.coupons, env.notifications, env.cfg.Shop, env.log)

	result, err := svc.Subscribe(context.Background(), &validators.NewsletterSubscribeRequest{Email: "ana@example.com"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, result.BrevoContactID)
	assert.NotEmpty(t, result.CouponCode)
}
