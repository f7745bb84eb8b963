package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bt23mme076-gif/atyant-sub000/internal/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	token, err := GenerateToken("user-123", "mentor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "mentor", claims.Role)
	assert.Equal(t, "atyant-backend", claims.Issuer)
	assert.NotEmpty(t, claims.GetJTI())
}

func TestTokenUniqueJTI(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	a, err := GenerateToken("user-123", "user")
	require.NoError(t, err)
	b, err := GenerateToken("user-123", "user")
	require.NoError(t, err)

	ca, err := ValidateToken(a)
	require.NoError(t, err)
	cb, err := ValidateToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.GetJTI(), cb.GetJTI())
}

func TestTamperedTokenRejected(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	token, err := GenerateToken("user-123", "user")
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = ValidateToken(tampered)
	assert.Error(t, err)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
	token, err := GenerateToken("user-123", "user")
	require.NoError(t, err)

	config.AppConfig = &config.Config{JWTSecret: "rotated-secret"}
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
