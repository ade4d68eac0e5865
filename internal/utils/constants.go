package utils

const (
	AppName = "MikelsEarth"

	StatusSuccess = "success"
	StatusError   = "error"

	// Pagination
	DefaultPageSize = 10
	MaxPageSize     = 100
	MinPageSize     = 1

	// Coupons
	CouponCodeLength   = 8
	CouponCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	MaxCouponAttempts  = 10

	// Order and subscription references
	OrderNumberPrefix        = "MKL"
	SubscriptionNumberPrefix = "SUB"

	// Blog
	DefaultExcerptLength = 200

	// File upload
	MaxImageSize = 5 * 1024 * 1024
)

var AllowedImageTypes = []string{"jpg", "jpeg", "png", "gif", "webp"}

// Error messages
const (
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Unauthorized"
	ErrValidationFailed = "Validation failed"
	ErrInvalidJSON      = "Invalid JSON payload"
	ErrInvalidSignature = "Invalid signature"
)
