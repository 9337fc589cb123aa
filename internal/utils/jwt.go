package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and sent in the Authorization header when
// calling protected endpoints. The server keeps no record of issued tokens;
// a token is valid iff its signature verifies and it has not expired.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenClaims is the claim set carried by an access token: the subject user
// ID plus the display name and avatar snapshot embedded at issue time so
// clients can render identity without an extra lookup.
type TokenClaims struct {
	UserID uint64
	Name   string
	Avatar string
}

// ErrInvalidToken is returned for tokens that fail signature, shape or
// expiry checks. Callers translate it into a 401.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a user. The JWT includes
// the subject (sub) as a decimal user ID, display name and avatar claims,
// expiration (exp) and issued-at (iat). ttlMin controls the token lifetime
// in minutes.
func NewAccessToken(secret string, userID uint64, name, avatar string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":    strconv.FormatUint(userID, 10),
		"name":   name,
		"avatar": avatar,
		"exp":    exp.Unix(),
		"iat":    now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of a raw token string
// and returns the embedded claims. Any failure maps to ErrInvalidToken so
// callers never leak parser detail to clients.
func ParseAccessToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return TokenClaims{}, ErrInvalidToken
	}
	name, _ := mc["name"].(string)
	avatar, _ := mc["avatar"].(string)
	return TokenClaims{UserID: id, Name: name, Avatar: avatar}, nil
}
