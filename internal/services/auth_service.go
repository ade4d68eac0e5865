package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"artisan/internal/config"
	"artisan/internal/utils"
	"artisan/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	failedLoginKeyPrefix = "auth:failed:"
	maxFailedLogins      = 5
	failedLoginWindow    = 15 * time.Minute
)

var (
	ErrInvalidCredentials = errors.New("Credenciales inválidas")
	ErrTooManyAttempts    = errors.New("Demasiados intentos, inténtalo más tarde")
	ErrTokenExpired       = errors.New("Token expirado")
	ErrTokenInvalid       = errors.New("Token inválido")
)

type AuthResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TokenClaims struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService authenticates the single blog administrator.
type AuthService interface {
	Login(ctx context.Context, username, password, ipAddress string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

type authService struct {
	username     string
	password     string
	passwordHash string
	jwtSecret    string
	tokenTTL     time.Duration
	cache        CacheService
	logger       *logger.Logger
}

func NewAuthService(blog *config.BlogConfig, security *config.SecurityConfig, cache CacheService, logger *logger.Logger) AuthService {
	return &authService{
		username:     blog.AdminUsername,
		password:     blog.AdminPassword,
		passwordHash: blog.AdminPasswordHash,
		jwtSecret:    security.JWTSecret,
		tokenTTL:     security.JWTAccessTokenTTL,
		cache:        cache,
		logger:       logger,
	}
}

// HashPassword returns a bcrypt hash suitable for BLOG_ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *authService) Login(ctx context.Context, username, password, ipAddress string) (*AuthResponse, error) {
	username = strings.TrimSpace(username)

	if s.tooManyAttempts(ctx, username) {
		s.logger.LogSecurityEvent("admin_login_locked", "medium", map[string]interface{}{
			"username":   username,
			"ip_address": ipAddress,
		})
		return nil, utils.NewUnauthorizedError(ErrTooManyAttempts.Error())
	}

	if !s.checkCredentials(username, password) {
		s.recordFailedLoginAttempt(ctx, username, ipAddress)
		return nil, utils.NewUnauthorizedError(ErrInvalidCredentials.Error())
	}
	s.resetFailedLoginAttempts(ctx, username)

	token, expiresAt, err := utils.GenerateAdminToken(username, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, utils.NewInternalError(fmt.Errorf("failed to generate access token: %w", err))
	}

	s.logger.WithContext(ctx).WithField("username", username).Info("Admin logged in")
	return &AuthResponse{
		Success:   true,
		Token:     token,
		Username:  username,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, utils.NewUnauthorizedError("Token requerido")
	}

	claims, err := utils.ValidateAdminToken(token, s.jwtSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, utils.NewUnauthorizedError(ErrTokenExpired.Error())
		}
		return nil, utils.NewUnauthorizedError(ErrTokenInvalid.Error())
	}
	if claims.Username != s.username {
		return nil, utils.NewUnauthorizedError(ErrTokenInvalid.Error())
	}

	result := &TokenClaims{Username: claims.Username}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}

// checkCredentials prefers the bcrypt hash and falls back to the plain
// password. With neither configured, login is disabled.
func (s *authService) checkCredentials(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) != 1 {
		return false
	}
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) == nil
	}
	if s.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
}

func (s *authService) tooManyAttempts(ctx context.Context, username string) bool {
	if s.cache == nil {
		return false
	}
	var attempts int64
	if err := s.cache.Get(ctx, failedLoginKeyPrefix+username, &attempts); err != nil {
		return false
	}
	return attempts >= maxFailedLogins
}

func (s *authService) recordFailedLoginAttempt(ctx context.Context, username, ipAddress string) {
	var attempts int64
	if s.cache != nil {
		n, err := s.cache.Increment(ctx, failedLoginKeyPrefix+username, failedLoginWindow)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to record login attempt")
		}
		attempts = n
	}
	s.logger.LogSecurityEvent("admin_login_failed", "low", map[string]interface{}{
		"username":   username,
		"ip_address": ipAddress,
		"attempts":   attempts,
	})
}

func (s *authService) resetFailedLoginAttempts(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, failedLoginKeyPrefix+username); err != nil {
		s.logger.WithError(err).Debug("Failed to reset login attempts")
	}
}
