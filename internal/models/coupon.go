package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Coupon struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code            string             `json:"code" bson:"code"`
	Email           string             `json:"email" bson:"email"`
	DiscountPercent int                `json:"discount_percentage" bson:"discount_percent"`
	Used            bool               `json:"used" bson:"used"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UsedAt          *time.Time         `json:"used_at" bson:"used_at,omitempty"`
}

// CouponSummary is the public projection returned by coupon validation.
type CouponSummary struct {
	Code            string `json:"code"`
	DiscountPercent int    `json:"discount_percentage"`
	Email           string `json:"email"`
}

func (c *Coupon) Summary() *CouponSummary {
	return &CouponSummary{
		Code:            c.Code,
		DiscountPercent: c.DiscountPercent,
		Email:           c.Email,
	}
}
