package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, APIError{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

func ErrorResponseWithDetails(c *gin.Context, statusCode int, code, message string, details map[string]string) {
	c.JSON(statusCode, APIError{
		Success: false,
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// HandleError writes err using its AppError classification.
func HandleError(c *gin.Context, err error) {
	appErr := AsAppError(err)
	if appErr.Kind == KindInternal || appErr.Kind == KindUpstream {
		_ = c.Error(err)
	}
	ErrorResponseWithDetails(c, appErr.StatusCode(), appErr.Code, appErr.Message, appErr.Details)
}

func ValidationErrorResponse(c *gin.Context, details map[string]string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", ErrValidationFailed, details)
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = ErrUnauthorized
	}
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func NotFoundResponse(c *gin.Context, resource string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", resource+" not found")
}

func InternalServerErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", ErrInternalServer)
}
