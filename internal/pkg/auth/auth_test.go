package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTService(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "thesismatch"})
	studentID := "stu-1"
	user := models.User{Base: models.Base{ID: "u-1"}, Email: "awa@univ.example", Role: models.RoleStudent, StudentID: &studentID}

	t.Run("should round trip claims", func(t *testing.T) {
		token, expiresIn, err := svc.GenerateToken(user)
		require.NoError(t, err)
		assert.Equal(t, int64(3600), expiresIn)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, models.RoleStudent, claims.Role)
		assert.Equal(t, "stu-1", claims.StudentID)
		assert.Empty(t, claims.SupervisorID)
	})

	t.Run("should reject a token signed with another key", func(t *testing.T) {
		other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "thesismatch"})
		token, _, err := other.GenerateToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
	})

	t.Run("should report expiry", func(t *testing.T) {
		token, _, err := svc.GenerateToken(user)
		require.NoError(t, err)

		later := NewJWTService(JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "thesismatch"})
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.ValidateToken(token)
		assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
	})

	t.Run("should reject empty and garbage tokens", func(t *testing.T) {
		_, err := svc.ValidateToken("")
		assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
		_, err = svc.ValidateToken("not.a.token")
		assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
	})
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	token, err = ExtractBearerToken("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
	_, err = ExtractBearerToken("Bearer ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, h.Check(hash, "correct horse"))
	assert.False(t, h.Check(hash, "wrong"))
	assert.Equal(t, BcryptCost, NewPasswordHasher(0).cost)
}
