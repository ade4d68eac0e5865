package middleware

import (
	"context"

	"artisan/internal/services"
	"artisan/internal/utils"

	"github.com/gin-gonic/gin"
)

const AdminUsernameKey = "admin_username"

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*services.TokenClaims, error)
}

// AdminRequired validates the bearer token and stores the admin username
// in the request context.
func AdminRequired(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, "Token requerido")
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(c.Request.Context(), authHeader)
		if err != nil {
			utils.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(AdminUsernameKey, claims.Username)
		c.Next()
	}
}

// AdminUsername returns the authenticated admin, if any.
func AdminUsername(c *gin.Context) string {
	return c.GetString(AdminUsernameKey)
}
