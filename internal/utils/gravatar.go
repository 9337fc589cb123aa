package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL derives the avatar URL for an email address: 200px,
// PG-rated, with the "mystery man" fallback for addresses without a
// registered Gravatar. The email is lowercased and trimmed before
// hashing, as Gravatar requires.
func GravatarURL(email string) string {
	norm := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(norm))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", sum)
}
