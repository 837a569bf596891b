package services

import (
	"context"
	"testing"
	"time"

	"cleanroster/config"
	"cleanroster/internal/models"
	"cleanroster/internal/testutil"
	"cleanroster/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(secret string, now time.Time) *AuthService {
	auth := NewAuthService(config.Config{JWTSecret: secret, JWTExpiryMinutes: 30}, nil)
	auth.now = func() time.Time { return now }
	return auth
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	now := time.Now()
	auth := newTestAuth("test-secret", now)
	user := testutil.NewUser(models.RoleChief, "chief")

	token, expiresAt, err := auth.IssueToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, now.Add(30*time.Minute), expiresAt, time.Second)

	claims, err := auth.ParseToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleChief, claims.Role)
	assert.NotEmpty(t, claims.ID)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestAuthService_RejectsBadTokens(t *testing.T) {
	now := time.Now()
	auth := newTestAuth("test-secret", now)
	user := testutil.NewUser(models.RoleClient, "client")

	token, _, err := auth.IssueToken(user)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := newTestAuth("other-secret", now).ParseToken(context.Background(), token)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := newTestAuth("test-secret", now.Add(time.Hour)).ParseToken(context.Background(), token)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.ParseToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})
}

func TestAuthService_Passwords(t *testing.T) {
	auth := newTestAuth("test-secret", time.Now())

	_, err := auth.HashPassword("short")
	assert.ErrorIs(t, err, types.ErrValidation)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, auth.CheckPassword(hash, "correct horse"))
	assert.False(t, auth.CheckPassword(hash, "wrong horse"))
}

func TestAuthService_RevokeWithoutSessionCache(t *testing.T) {
	auth := newTestAuth("test-secret", time.Now())
	assert.NoError(t, auth.Revoke(context.Background(), &Claims{}))
}

func TestSignupRole(t *testing.T) {
	tests := []struct {
		requested string
		expected  models.Role
		err       error
	}{
		{"", models.RoleClient, nil},
		{"CLIENT", models.RoleClient, nil},
		{"chief", models.RoleChief, nil},
		{"MEMBER", models.RoleMember, nil},
		{"ADMIN", "", types.ErrForbidden},
		{"JANITOR", "", types.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			role, err := SignupRole(tt.requested)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, role)
		})
	}
}
