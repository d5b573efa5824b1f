package utils_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averdin/northwind-api/internal/utils"
)

const (
	testSecret   = "unit-test-secret"
	testAudience = "northwind-clients"
	testIssuer   = "northwind-api"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, testAudience, testIssuer,
		"5c61b9f6-5c1b-4ba6-9d0b-9e331b751e44", "Admin", 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 2*time.Second)

	claims, err := utils.ParseAccessToken(testSecret, testAudience, testIssuer, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "5c61b9f6-5c1b-4ba6-9d0b-9e331b751e44", claims.Subject)
	assert.Equal(t, "Admin", claims.Role)
}

func TestParseAccessTokenRejections(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, testAudience, testIssuer, "sub-1", "Customer", time.Minute)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := utils.ParseAccessToken("other-secret", testAudience, testIssuer, tok.Token)
		assert.ErrorIs(t, err, utils.ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		_, err := utils.ParseAccessToken(testSecret, "someone-else", testIssuer, tok.Token)
		assert.ErrorIs(t, err, utils.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := utils.ParseAccessToken(testSecret, testAudience, "rogue-issuer", tok.Token)
		assert.ErrorIs(t, err, utils.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := utils.ParseAccessToken(testSecret, testAudience, testIssuer, "not.a.jwt")
		assert.ErrorIs(t, err, utils.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		old, err := utils.NewAccessToken(testSecret, testAudience, testIssuer, "sub-1", "Customer", -time.Minute)
		require.NoError(t, err)
		_, err = utils.ParseAccessToken(testSecret, testAudience, testIssuer, old.Token)
		assert.ErrorIs(t, err, utils.ErrInvalidToken)
	})
}

func TestNewRefreshValue(t *testing.T) {
	t.Run("encodes a 32-byte digest", func(t *testing.T) {
		v, err := utils.NewRefreshValue()
		require.NoError(t, err)
		raw, err := base64.StdEncoding.DecodeString(v)
		require.NoError(t, err)
		assert.Len(t, raw, 32)
	})

	t.Run("values never repeat", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			v, err := utils.NewRefreshValue()
			require.NoError(t, err)
			require.False(t, seen[v])
			seen[v] = true
		}
	})
}
