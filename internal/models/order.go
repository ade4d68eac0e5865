package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string
type OrderStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"

	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type OrderItem struct {
	ID       string  `json:"id,omitempty" bson:"id,omitempty"`
	Name     string  `json:"name" bson:"name"`
	Quantity int64   `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"`
	Weight   string  `json:"weight,omitempty" bson:"weight,omitempty"`
	Image    string  `json:"image,omitempty" bson:"image,omitempty"`
}

func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

type Order struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrderNumber string             `json:"order_number" bson:"order_number"`

	CustomerEmail string `json:"customer_email" bson:"customer_email"`
	CustomerName  string `json:"customer_name" bson:"customer_name"`
	CustomerPhone string `json:"customer_phone" bson:"customer_phone"`

	ShippingAddress    string `json:"shipping_address" bson:"shipping_address"`
	ShippingCity       string `json:"shipping_city" bson:"shipping_city"`
	ShippingPostalCode string `json:"shipping_postal_code" bson:"shipping_postal_code"`
	ShippingCountry    string `json:"shipping_country" bson:"shipping_country"`

	Items        []OrderItem `json:"items" bson:"items"`
	Subtotal     float64     `json:"subtotal" bson:"subtotal"`
	ShippingCost float64     `json:"shipping_cost" bson:"shipping_cost"`
	Discount     float64     `json:"discount" bson:"discount"`
	CouponCode   string      `json:"coupon_code,omitempty" bson:"coupon_code,omitempty"`
	Total        float64     `json:"total" bson:"total"`
	Currency     string      `json:"currency" bson:"currency"`

	PaymentStatus           PaymentStatus `json:"payment_status" bson:"payment_status"`
	OrderStatus             OrderStatus   `json:"order_status" bson:"order_status"`
	StripePaymentIntentID   string        `json:"stripe_payment_intent_id,omitempty" bson:"stripe_payment_intent_id,omitempty"`
	StripeCheckoutSessionID string        `json:"stripe_checkout_session_id,omitempty" bson:"stripe_checkout_session_id,omitempty"`

	CustomerNotes string `json:"customer_notes,omitempty" bson:"customer_notes,omitempty"`
	AdminNotes    string `json:"admin_notes,omitempty" bson:"admin_notes,omitempty"`

	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
	PaidAt    *time.Time `json:"paid_at" bson:"paid_at,omitempty"`
}

// FullShippingAddress renders the address on one line for notifications.
func (o *Order) FullShippingAddress() string {
	addr := o.ShippingAddress
	for _, part := range []string{o.ShippingPostalCode + " " + o.ShippingCity, o.ShippingCountry} {
		if part == "" || part == " " {
			continue
		}
		if addr != "" {
			addr += ", "
		}
		addr += part
	}
	return addr
}

type OrderFilter struct {
	PaymentStatus PaymentStatus
	OrderStatus   OrderStatus
	CustomerEmail string
}

// OrderStatusUpdate carries operator changes; empty fields are left as is.
type OrderStatusUpdate struct {
	OrderStatus   OrderStatus
	PaymentStatus PaymentStatus
	AdminNotes    string
}
