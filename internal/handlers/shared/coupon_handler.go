package handlers

import (
	"errors"
	"net/http"

	"artisan/internal/services"
	"artisan/internal/utils"
	"artisan/internal/validators"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	couponService services.CouponService
}

func NewCouponHandler(couponService services.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// ValidateCoupon checks a code without redeeming it. Rejections are a
// normal outcome and come back as valid=false with a 200.
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req validators.CouponValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateCouponValidate(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	coupon, err := h.couponService.ValidateCoupon(c.Request.Context(), req.Code, req.Email)
	if err != nil {
		if services.IsCouponError(err) {
			c.JSON(http.StatusOK, gin.H{"valid": false, "message": err.Error()})
			return
		}
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "coupon": coupon.Summary()})
}

// UseCoupon validates and redeems a code for the given email.
func (h *CouponHandler) UseCoupon(c *gin.Context) {
	var req validators.CouponUseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateCouponUse(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	coupon, err := h.couponService.UseCoupon(c.Request.Context(), req.Code, req.Email)
	if err != nil {
		if services.IsCouponError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "coupon": coupon.Summary()})
}

func (h *CouponHandler) CheckCoupon(c *gin.Context) {
	email := utils.NormalizeEmail(c.Param("email"))
	if !utils.IsValidEmail(email) {
		utils.ValidationErrorResponse(c, map[string]string{"email": "email must be a valid email address"})
		return
	}

	coupon, err := h.couponService.GetCouponByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, services.ErrCouponNotFound) {
			c.JSON(http.StatusOK, gin.H{"has_coupon": false})
			return
		}
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"has_coupon": true, "coupon": coupon.Summary()})
}

type NewsletterHandler struct {
	newsletterService services.NewsletterService
}

func NewNewsletterHandler(newsletterService services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{
		newsletterService: newsletterService,
	}
}

func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req validators.NewsletterSubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateNewsletterSubscribe(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	result, err := h.newsletterService.Subscribe(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
