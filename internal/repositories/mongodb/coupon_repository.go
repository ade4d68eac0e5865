package mongodb

import (
	"context"
	"time"

	"artisan/internal/models"
	"artisan/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type couponRepository struct {
	collection *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) interfaces.CouponRepository {
	return &couponRepository{
		collection: db.Collection("coupons"),
	}
}

func (r *couponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.ID = primitive.NewObjectID()
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, coupon)
	if err != nil {
		coupon.ID = primitive.NilObjectID
		return translateError(err, "create coupon")
	}
	return nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *couponRepository) GetByEmail(ctx context.Context, email string) (*models.Coupon, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *couponRepository) MarkUsed(ctx context.Context, code string, usedAt time.Time) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"code": code, "used": false},
		bson.M{"$set": bson.M{"used": true, "used_at": usedAt}},
	)
	if err != nil {
		return translateError(err, "mark coupon used")
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *couponRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, translateError(err, "count coupons")
	}
	return count, nil
}

func (r *couponRepository) findOne(ctx context.Context, filter bson.M) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.collection.FindOne(ctx, filter).Decode(&coupon); err != nil {
		return nil, translateError(err, "get coupon")
	}
	return &coupon, nil
}
