package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("segredo")

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestParseToken(t *testing.T) {
	raw := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
		"username": "ana",
		"roles":    []string{"admin", "analista"},
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	claims, err := ParseToken(raw, secret)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, []string{"admin", "analista"}, claims.Roles)
}

func TestParseToken_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"expired", sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
			"username": "ana", "exp": time.Now().Add(-time.Minute).Unix(),
		})},
		{"without exp", sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"username": "ana"})},
		{"other secret", sign(t, jwt.SigningMethodHS256, []byte("outro"), jwt.MapClaims{
			"username": "ana", "exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"other algorithm", sign(t, jwt.SigningMethodHS512, secret, jwt.MapClaims{
			"username": "ana", "exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"garbage", "nao-e-um-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.raw, secret)
			assert.Error(t, err)
		})
	}
}
