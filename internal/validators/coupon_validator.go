package validators

import (
	"strings"

	"artisan/internal/utils"
)

type CouponValidateRequest struct {
	Code  string `json:"code" validate:"required,coupon_code"`
	Email string `json:"email" validate:"omitempty,email"`
}

type CouponUseRequest struct {
	Code  string `json:"code" validate:"required,coupon_code"`
	Email string `json:"email" validate:"required,email"`
}

type NewsletterSubscribeRequest struct {
	Email      string `json:"email" validate:"required,email"`
	CouponCode string `json:"coupon_code" validate:"omitempty,coupon_code"`
	Name       string `json:"name" validate:"omitempty,max=100"`
	Source     string `json:"source" validate:"omitempty,max=50"`
}

func ValidateCouponValidate(req *CouponValidateRequest) ValidationErrors {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Email != "" {
		req.Email = utils.NormalizeEmail(req.Email)
	}
	return ValidateStruct(req)
}

func ValidateCouponUse(req *CouponUseRequest) ValidationErrors {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Email = utils.NormalizeEmail(req.Email)
	return ValidateStruct(req)
}

func ValidateNewsletterSubscribe(req *NewsletterSubscribeRequest) ValidationErrors {
	req.Email = utils.NormalizeEmail(req.Email)
	req.CouponCode = strings.ToUpper(strings.TrimSpace(req.CouponCode))
	req.Name = SanitizeInput(req.Name)
	return ValidateStruct(req)
}
