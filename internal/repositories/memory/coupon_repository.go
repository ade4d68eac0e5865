// Package memory holds in-process repositories with the same uniqueness
// rules as the MongoDB indexes. They back tests and DB_DRIVER=memory.
package memory

import (
	"context"
	"sync"
	"time"

	"artisan/internal/models"
	"artisan/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type couponRepository struct {
	mu      sync.RWMutex
	byCode  map[string]*models.Coupon
	byEmail map[string]*models.Coupon
}

func NewCouponRepository() interfaces.CouponRepository {
	return &couponRepository{
		byCode:  make(map[string]*models.Coupon),
		byEmail: make(map[string]*models.Coupon),
	}
}

func (r *couponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[coupon.Email]; ok {
		return &interfaces.DuplicateKeyError{Field: "email"}
	}
	if _, ok := r.byCode[coupon.Code]; ok {
		return &interfaces.DuplicateKeyError{Field: "code"}
	}

	coupon.ID = primitive.NewObjectID()
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = time.Now().UTC()
	}
	stored := *coupon
	r.byCode[stored.Code] = &stored
	r.byEmail[stored.Email] = &stored
	return nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupon, ok := r.byCode[code]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *coupon
	return &clone, nil
}

func (r *couponRepository) GetByEmail(ctx context.Context, email string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupon, ok := r.byEmail[email]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *coupon
	return &clone, nil
}

func (r *couponRepository) MarkUsed(ctx context.Context, code string, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	coupon, ok := r.byCode[code]
	if !ok || coupon.Used {
		return interfaces.ErrNotFound
	}
	coupon.Used = true
	coupon.UsedAt = &usedAt
	return nil
}

func (r *couponRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byCode)), nil
}
