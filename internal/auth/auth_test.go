package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-backend/internal/config"
	"fintrack-backend/internal/models"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "fintrack-backend"
	return cfg
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig("test-secret"))
	user := &models.User{ID: 42, Email: "jo@example.test"}

	token, err := manager.GenerateToken(user)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "jo@example.test", claims.Email)
	assert.Equal(t, "fintrack-backend", claims.Issuer)
}

func TestTokenWrongSecret(t *testing.T) {
	manager := NewJWTManager(testConfig("test-secret"))
	other := NewJWTManager(testConfig("another-secret"))

	token, err := manager.GenerateToken(&models.User{ID: 1, Email: "a@b.test"})
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	manager := NewJWTManager(testConfig("test-secret"))
	_, err := manager.ValidateToken("not.a.token")
	assert.Error(t, err)
}
