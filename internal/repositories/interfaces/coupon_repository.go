package interfaces

import (
	"context"
	"time"

	"artisan/internal/models"
)

type CouponRepository interface {
	// Create inserts a coupon. Email and code are unique; a clash returns a
	// *DuplicateKeyError naming the field.
	Create(ctx context.Context, coupon *models.Coupon) error
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	GetByEmail(ctx context.Context, email string) (*models.Coupon, error)

	// MarkUsed flips used=false to used=true. It returns ErrNotFound when no
	// unused coupon with that code exists.
	MarkUsed(ctx context.Context, code string, usedAt time.Time) error
	Count(ctx context.Context) (int64, error)
}
