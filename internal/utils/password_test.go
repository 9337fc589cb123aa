package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	require.True(t, VerifyPassword(hash, "hunter22"))
	require.False(t, VerifyPassword(hash, "hunter23"))
	require.False(t, VerifyPassword("not-a-hash", "hunter22"))
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	a, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
