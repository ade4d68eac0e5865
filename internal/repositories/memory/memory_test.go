package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"artisan/internal/models"
	"artisan/internal/repositories/interfaces"
	"artisan/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponRepositoryUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	repo := NewCouponRepository()

	require.NoError(t, repo.Create(ctx, &models.Coupon{Code: "MIKELS10-AAAAAAAA", Email: "a@x.com", DiscountPercent: 10}))

	err := repo.Create(ctx, &models.Coupon{Code: "MIKELS10-BBBBBBBB", Email: "a@x.com"})
	require.True(t, errors.Is(err, interfaces.ErrDuplicateKey))
	assert.Equal(t, "email", interfaces.DuplicateField(err))

	err = repo.Create(ctx, &models.Coupon{Code: "MIKELS10-AAAAAAAA", Email: "b@x.com"})
	assert.Equal(t, "code", interfaces.DuplicateField(err))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCouponRepositoryMarkUsedOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewCouponRepository()
	require.NoError(t, repo.Create(ctx, &models.Coupon{Code: "C-1", Email: "a@x.com"}))

	now := time.Now().UTC()
	require.NoError(t, repo.MarkUsed(ctx, "C-1", now))
	assert.ErrorIs(t, repo.MarkUsed(ctx, "C-1", now), interfaces.ErrNotFound)

	coupon, err := repo.GetByCode(ctx, "C-1")
	require.NoError(t, err)
	assert.True(t, coupon.Used)
	require.NotNil(t, coupon.UsedAt)
}

func TestOrderRepositoryMarkPaidOnlyFromPending(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	require.NoError(t, repo.Create(ctx, &models.Order{OrderNumber: "MKL-1", PaymentStatus: models.PaymentStatusPending}))

	err := repo.Create(ctx, &models.Order{OrderNumber: "MKL-1"})
	assert.ErrorIs(t, err, interfaces.ErrDuplicateKey)

	paidAt := time.Now().UTC()
	changed, err := repo.MarkPaid(ctx, "MKL-1", "pi_1", paidAt)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkPaid(ctx, "MKL-1", "pi_2", paidAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, changed)

	order, err := repo.GetByOrderNumber(ctx, "MKL-1")
	require.NoError(t, err)
	assert.Equal(t, "pi_1", order.StripePaymentIntentID)
	assert.True(t, order.PaidAt.Equal(paidAt))

	_, err = repo.MarkPaid(ctx, "MKL-404", "", paidAt)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestOrderRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	require.NoError(t, repo.Create(ctx, &models.Order{
		OrderNumber: "MKL-2",
		Items:       []models.OrderItem{{Name: "Aceite", Quantity: 1, Price: 10}},
	}))

	order, err := repo.GetByOrderNumber(ctx, "MKL-2")
	require.NoError(t, err)
	order.Items[0].Name = "mutated"

	again, err := repo.GetByOrderNumber(ctx, "MKL-2")
	require.NoError(t, err)
	assert.Equal(t, "Aceite", again.Items[0].Name)
}

func TestSubscriptionRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSubscriptionRepository()
	require.NoError(t, repo.Create(ctx, &models.Subscription{
		SubscriptionNumber: "SUB-1",
		Status:             models.SubscriptionStatusPending,
		Frequency:          models.FrequencyMonthly,
	}))

	activatedAt := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)
	changed, err := repo.Activate(ctx, "SUB-1", &models.SubscriptionActivation{
		StripeSubscriptionID: "sub_1",
		StripeCustomerID:     "cus_1",
		ActivatedAt:          activatedAt,
	})
	require.NoError(t, err)
	assert.True(t, changed)

	sub, err := repo.GetByStripeSubscriptionID(ctx, "sub_1")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	require.NotNil(t, sub.NextBillingDate)
	assert.Equal(t, activatedAt.AddDate(0, 1, 0), *sub.NextBillingDate)

	cancelled, changed, err := repo.Cancel(ctx, "sub_1", activatedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.SubscriptionStatusCancelled, cancelled.Status)

	_, changed, err = repo.Cancel(ctx, "sub_1", activatedAt.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	_, _, err = repo.Cancel(ctx, "sub_unknown", activatedAt)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestBlogPostRepositoryListing(t *testing.T) {
	ctx := context.Background()
	repo := NewBlogPostRepository()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, p := range []struct {
		slug     string
		status   models.PostStatus
		category string
	}{
		{"primera", models.PostStatusPublished, "Recetas"},
		{"segunda", models.PostStatusPublished, "Recetas"},
		{"tercera", models.PostStatusPublished, "Campo"},
		{"borrador", models.PostStatusDraft, "Recetas"},
	} {
		post := &models.BlogPost{Title: p.slug, Slug: p.slug, Status: p.status, Category: p.category, CreatedAt: base}
		if p.status == models.PostStatusPublished {
			published := base.Add(time.Duration(i) * time.Hour)
			post.PublishedAt = &published
		}
		require.NoError(t, repo.Create(ctx, post))
	}

	err := repo.Create(ctx, &models.BlogPost{Slug: "primera"})
	assert.Equal(t, "slug", interfaces.DuplicateField(err))

	posts, total, err := repo.List(ctx, &models.BlogPostFilter{Status: models.PostStatusPublished}, utils.NewPaginationParams(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, posts, 2)
	assert.Equal(t, "tercera", posts[0].Slug)
	assert.Equal(t, "segunda", posts[1].Slug)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Recetas", categories[0].Name)
	assert.Equal(t, int64(2), categories[0].Count)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.PostStats{Total: 4, Published: 3, Drafts: 1}, stats)
}

func TestBlogPostRepositoryUpdateChecksSlug(t *testing.T) {
	ctx := context.Background()
	repo := NewBlogPostRepository()

	a := &models.BlogPost{Slug: "a"}
	b := &models.BlogPost{Slug: "b"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	b.Slug = "a"
	assert.ErrorIs(t, repo.Update(ctx, b), interfaces.ErrDuplicateKey)

	b.Slug = "b-renamed"
	require.NoError(t, repo.Update(ctx, b))

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), interfaces.ErrNotFound)
}
