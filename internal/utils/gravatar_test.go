package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGravatarURL(t *testing.T) {
	url := GravatarURL("jane@example.com")
	require.Contains(t, url, "https://www.gravatar.com/avatar/")
	require.Contains(t, url, "s=200")
	require.Contains(t, url, "d=mm")
}

func TestGravatarURLNormalizesInput(t *testing.T) {
	// The hash is taken over the trimmed, lowercased address per the
	// Gravatar contract, even though accounts keep emails verbatim.
	require.Equal(t, GravatarURL("jane@example.com"), GravatarURL("  Jane@Example.COM "))
}
