package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "Jane Doe", "https://example.com/a.png", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.UserID)
	require.Equal(t, "Jane Doe", claims.Name)
	require.Equal(t, "https://example.com/a.png", claims.Avatar)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret", 1, "n", "", 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("other", tok.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken("secret", 1, "n", "", -1)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", tok.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := ParseAccessToken("secret", raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}
