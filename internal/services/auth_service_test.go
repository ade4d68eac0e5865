package services

import (
	"context"
	"testing"
	"time"

	"artisan/internal/utils"
	"artisan/pkg/cache"
	"artisan/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	cfg := testConfig()
	return NewAuthService(cfg.Blog, cfg.Security, cache.NewMemoryCache(), logger.NewNop())
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, " admin ", "s3cret", "127.0.0.1")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "admin", resp.Username)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(ctx, "Bearer "+resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)

	for _, creds := range [][2]string{{"admin", "wrong"}, {"root", "s3cret"}, {"", ""}} {
		_, err := svc.Login(context.Background(), creds[0], creds[1], "127.0.0.1")
		require.Error(t, err)
		assert.True(t, utils.IsKind(err, utils.KindUnauthorized))
		assert.Equal(t, ErrInvalidCredentials.Error(), utils.AsAppError(err).Message)
	}
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	for i := 0; i < maxFailedLogins; i++ {
		_, err := svc.Login(ctx, "admin", "wrong", "10.0.0.1")
		require.Error(t, err)
	}

	_, err := svc.Login(ctx, "admin", "s3cret", "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, ErrTooManyAttempts.Error(), utils.AsAppError(err).Message)
}

func TestSuccessfulLoginResetsFailures(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	for i := 0; i < maxFailedLogins-1; i++ {
		_, _ = svc.Login(ctx, "admin", "wrong", "10.0.0.1")
	}
	_, err := svc.Login(ctx, "admin", "s3cret", "10.0.0.1")
	require.NoError(t, err)

	for i := 0; i < maxFailedLogins-1; i++ {
		_, _ = svc.Login(ctx, "admin", "wrong", "10.0.0.1")
	}
	_, err = svc.Login(ctx, "admin", "s3cret", "10.0.0.1")
	assert.NoError(t, err)
}

func TestLoginWithPasswordHash(t *testing.T) {
	hash, err := HashPassword("otra-clave")
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Blog.AdminPasswordHash = hash
	svc := NewAuthService(cfg.Blog, cfg.Security, nil, logger.NewNop())

	_, err = svc.Login(context.Background(), "admin", "otra-clave", "")
	assert.NoError(t, err)

	// The hash takes precedence over the plain password.
	_, err = svc.Login(context.Background(), "admin", "s3cret", "")
	assert.Error(t, err)
}

func TestValidateTokenFailures(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	expired, _, err := utils.GenerateAdminToken("admin", "test-secret", -time.Minute)
	require.NoError(t, err)
	foreign, _, err := utils.GenerateAdminToken("admin", "other-secret", time.Hour)
	require.NoError(t, err)
	otherUser, _, err := utils.GenerateAdminToken("intruder", "test-secret", time.Hour)
	require.NoError(t, err)

	tests := map[string]struct {
		token   string
		message string
	}{
		"missing":        {"", "Token requerido"},
		"bearer only":    {"Bearer ", "Token requerido"},
		"expired":        {expired, ErrTokenExpired.Error()},
		"wrong secret":   {foreign, ErrTokenInvalid.Error()},
		"other username": {otherUser, ErrTokenInvalid.Error()},
		"garbage":        {"not.a.jwt", ErrTokenInvalid.Error()},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(ctx, tt.token)
			require.Error(t, err)
			assert.True(t, utils.IsKind(err, utils.KindUnauthorized))
			assert.Equal(t, tt.message, utils.AsAppError(err).Message)
		})
	}
}
