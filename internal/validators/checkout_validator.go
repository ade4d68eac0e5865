package validators

import (
	"strings"

	"artisan/internal/utils"
)

type CheckoutItem struct {
	ID       string  `json:"id" validate:"omitempty,max=100"`
	Name     string  `json:"name" validate:"required,max=200"`
	Price    float64 `json:"price" validate:"gt=0"`
	Quantity int64   `json:"quantity" validate:"gte=1,lte=100"`
	Weight   string  `json:"weight" validate:"omitempty,max=50"`
	Image    string  `json:"image" validate:"omitempty,max=500"`
}

type CustomerInfo struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required,max=200"`
	Phone      string `json:"phone" validate:"omitempty,phone_number"`
	Address    string `json:"address" validate:"omitempty,max=300"`
	City       string `json:"city" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=20"`
	Country    string `json:"country" validate:"omitempty,max=100"`
	Notes      string `json:"notes" validate:"omitempty,max=1000"`
}

type CheckoutRequest struct {
	Items        []CheckoutItem `json:"items" validate:"required,min=1,dive"`
	CustomerInfo *CustomerInfo  `json:"customer_info" validate:"required"`
	CouponCode   string         `json:"coupon_code" validate:"omitempty,coupon_code"`
}

type SubscriptionItem struct {
	ID                    string  `json:"id" validate:"required,max=100"`
	Name                  string  `json:"name" validate:"required,max=200"`
	Slug                  string  `json:"slug" validate:"omitempty,max=200"`
	Price                 float64 `json:"price" validate:"gt=0"`
	Quantity              int64   `json:"quantity" validate:"omitempty,gte=1,lte=100"`
	SubscriptionFrequency string  `json:"subscription_frequency" validate:"required,frequency"`
}

type SubscriptionCustomer struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=200"`
}

type SubscriptionCheckoutRequest struct {
	Item         *SubscriptionItem     `json:"item" validate:"required"`
	CustomerInfo *SubscriptionCustomer `json:"customer_info" validate:"required"`
}

func ValidateCheckout(req *CheckoutRequest, defaultCountry string) ValidationErrors {
	if req.CustomerInfo != nil {
		info := req.CustomerInfo
		info.Email = utils.NormalizeEmail(info.Email)
		info.Name = strings.TrimSpace(info.Name)
		if strings.TrimSpace(info.Country) == "" {
			info.Country = defaultCountry
		}
		info.Notes = SanitizeInput(info.Notes)
	}
	req.CouponCode = strings.ToUpper(strings.TrimSpace(req.CouponCode))
	return ValidateStruct(req)
}

func ValidateSubscriptionCheckout(req *SubscriptionCheckoutRequest) ValidationErrors {
	if req.Item != nil && req.Item.Quantity == 0 {
		req.Item.Quantity = 1
	}
	if req.CustomerInfo != nil {
		req.CustomerInfo.Email = utils.NormalizeEmail(req.CustomerInfo.Email)
		req.CustomerInfo.Name = strings.TrimSpace(req.CustomerInfo.Name)
	}
	return ValidateStruct(req)
}
