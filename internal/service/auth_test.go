package service

import (
	"context"
	"testing"
	"time"

	"crown-hotels-booking/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	tokens := security.NewTokenManager("test-secret", time.Hour)
	svc := NewAuthService([]StaffAccount{{Username: "frontdesk", PasswordHash: string(hash), Role: "staff"}}, tokens)

	t.Run("Success", func(t *testing.T) {
		token, expires, err := svc.Login(ctx, "frontdesk", "s3cret")
		require.NoError(t, err)
		assert.True(t, expires.After(time.Now()))

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "frontdesk", claims.Username)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "frontdesk", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ghost", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
