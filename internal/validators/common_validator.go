package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"artisan/internal/models"
)

var validate *validator.Validate

var (
	phoneRegex      = regexp.MustCompile(`^\+?[0-9\s\-().]{6,20}$`)
	couponCodeRegex = regexp.MustCompile(`^[A-Za-z0-9\-]{3,40}$`)
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
)

func init() {
	validate = validator.New()

	// Report fields by their JSON name so API callers see the keys they sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("coupon_code", validateCouponCode)
	validate.RegisterValidation("frequency", validateFrequency)
	validate.RegisterValidation("post_status", validatePostStatus)
	validate.RegisterValidation("payment_status", validatePaymentStatus)
	validate.RegisterValidation("order_status", validateOrderStatus)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Details flattens the errors into a field -> message map for API responses.
func (v ValidationErrors) Details() map[string]string {
	details := make(map[string]string, len(v))
	for _, err := range v {
		if _, ok := details[err.Field]; !ok {
			details[err.Field] = err.Message
		}
	}
	return details
}

// First returns the message of the first error, or "" when there is none.
func (v ValidationErrors) First() string {
	if len(v) == 0 {
		return ""
	}
	return v[0].Message
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		fieldErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return ValidationErrors{{Field: "body", Tag: "invalid", Message: err.Error()}}
		}
		for _, err := range fieldErrors {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fieldPath(err),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

// fieldPath drops the top-level struct name from the namespace, so nested
// errors read "customer_info.email" and "items[0].price".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return err.Field()
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return "Invalid email format"
	case "min":
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", err.Field(), err.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), paramBound(err))
	case "lte":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	case "object_id":
		return "Invalid ID format"
	case "phone_number":
		return "Invalid phone number format"
	case "coupon_code":
		return "Invalid coupon code format"
	case "frequency":
		return "Invalid subscription frequency"
	case "post_status":
		return "Status must be draft or published"
	case "payment_status":
		return "Invalid payment status"
	case "order_status":
		return "Invalid order status"
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

func paramBound(err validator.FieldError) string {
	if err.Tag() == "gte" {
		return "or equal to " + err.Param()
	}
	return err.Param()
}

// Custom validation functions
func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let required tag handle empty values
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}

func validatePhoneNumber(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true
	}
	return phoneRegex.MatchString(phone)
}

func validateCouponCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if code == "" {
		return true
	}
	return couponCodeRegex.MatchString(strings.TrimSpace(code))
}

func validateFrequency(fl validator.FieldLevel) bool {
	_, ok := models.SubscriptionFrequency(fl.Field().String()).Interval()
	return ok
}

func validatePostStatus(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	return status == "" || models.PostStatus(status).IsValid()
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	return status == "" || models.PaymentStatus(status).IsValid()
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	return status == "" || models.OrderStatus(status).IsValid()
}

func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// SanitizeInput strips HTML tags and surrounding whitespace from free text
// that ends up inside notification emails.
func SanitizeInput(input string) string {
	cleaned := htmlTagRegex.ReplaceAllString(input, "")
	return strings.TrimSpace(cleaned)
}
