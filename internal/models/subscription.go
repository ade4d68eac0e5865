package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionStatus string
type SubscriptionFrequency string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"

	FrequencyWeekly     SubscriptionFrequency = "weekly"
	FrequencyBiweekly   SubscriptionFrequency = "biweekly"
	FrequencyMonthly    SubscriptionFrequency = "monthly"
	FrequencyBimonthly  SubscriptionFrequency = "bimonthly"
	FrequencyQuarterly  SubscriptionFrequency = "quarterly"
	FrequencySemiannual SubscriptionFrequency = "semiannual"
)

// BillingInterval is the recurring interval understood by the payment provider.
type BillingInterval struct {
	Unit  string // week, month
	Count int64
}

var frequencyIntervals = map[SubscriptionFrequency]BillingInterval{
	FrequencyWeekly:     {Unit: "week", Count: 1},
	FrequencyBiweekly:   {Unit: "week", Count: 2},
	FrequencyMonthly:    {Unit: "month", Count: 1},
	FrequencyBimonthly:  {Unit: "month", Count: 2},
	FrequencyQuarterly:  {Unit: "month", Count: 3},
	FrequencySemiannual: {Unit: "month", Count: 6},
}

var frequencyLabels = map[SubscriptionFrequency]string{
	FrequencyWeekly:     "Semanal",
	FrequencyBiweekly:   "Quincenal",
	FrequencyMonthly:    "Mensual",
	FrequencyBimonthly:  "Bimestral",
	FrequencyQuarterly:  "Trimestral",
	FrequencySemiannual: "Semestral",
}

func (f SubscriptionFrequency) Interval() (BillingInterval, bool) {
	interval, ok := frequencyIntervals[f]
	return interval, ok
}

func (f SubscriptionFrequency) Label() string {
	if label, ok := frequencyLabels[f]; ok {
		return label
	}
	return string(f)
}

// NextBillingDate advances from by one billing interval.
func (f SubscriptionFrequency) NextBillingDate(from time.Time) time.Time {
	interval, ok := f.Interval()
	if !ok {
		return from
	}
	if interval.Unit == "week" {
		return from.AddDate(0, 0, 7*int(interval.Count))
	}
	return from.AddDate(0, int(interval.Count), 0)
}

type Subscription struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SubscriptionNumber string             `json:"subscription_number" bson:"subscription_number"`

	CustomerEmail string `json:"customer_email" bson:"customer_email"`
	CustomerName  string `json:"customer_name" bson:"customer_name"`

	ProductID   string                `json:"product_id" bson:"product_id"`
	ProductName string                `json:"product_name" bson:"product_name"`
	ProductSlug string                `json:"product_slug" bson:"product_slug"`
	Quantity    int64                 `json:"quantity" bson:"quantity"`
	UnitPrice   float64               `json:"unit_price" bson:"unit_price"`
	Currency    string                `json:"currency" bson:"currency"`
	Frequency   SubscriptionFrequency `json:"frequency" bson:"frequency"`

	Status                  SubscriptionStatus `json:"status" bson:"status"`
	StripeSubscriptionID    string             `json:"stripe_subscription_id,omitempty" bson:"stripe_subscription_id,omitempty"`
	StripeCustomerID        string             `json:"stripe_customer_id,omitempty" bson:"stripe_customer_id,omitempty"`
	StripePriceID           string             `json:"stripe_price_id,omitempty" bson:"stripe_price_id,omitempty"`
	StripeCheckoutSessionID string             `json:"stripe_checkout_session_id,omitempty" bson:"stripe_checkout_session_id,omitempty"`

	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" bson:"updated_at"`
	NextBillingDate *time.Time `json:"next_billing_date" bson:"next_billing_date,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at" bson:"cancelled_at,omitempty"`
}

type SubscriptionFilter struct {
	Status        SubscriptionStatus
	CustomerEmail string
}

type SubscriptionActivation struct {
	StripeSubscriptionID string
	StripeCustomerID     string
	ActivatedAt          time.Time
}
