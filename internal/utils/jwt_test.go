package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken("test-secret", "a@x.com", "Ann", 15)
	require.NoError(t, err)
	assert.NotEmpty(t, at.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", claims["sub"])
	assert.Equal(t, "Ann", claims["name"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken("test-secret", "a@x.com", "Ann", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestNewSessionToken(t *testing.T) {
	st, err := NewSessionToken(24)
	require.NoError(t, err)
	assert.Len(t, st.Raw, 64, "32 random bytes hex-encoded")
	assert.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), st.Exp, 5*time.Second)

	other, err := NewSessionToken(24)
	require.NoError(t, err)
	assert.NotEqual(t, st.Raw, other.Raw)
}

func TestHashSessionRaw(t *testing.T) {
	h1 := HashSessionRaw("token-a")
	h2 := HashSessionRaw("token-a")
	h3 := HashSessionRaw("token-b")

	assert.Equal(t, h1, h2, "hashing is deterministic")
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
	assert.NotContains(t, h1, "token-a")
}
