package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken is a signed JWT access token along with its expiry.
// Access tokens are short-lived and presented in the Authorization
// header on each request.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenClaims is the claim set extracted from a validated access
// token: the user's external identifier and role string.
type TokenClaims struct {
	Subject string // external user identifier (sub)
	Role    string // role claim
}

// ErrInvalidToken is returned when an access token fails validation.
var ErrInvalidToken = errors.New("invalid access token")

// NewAccessToken builds and signs an HS256 JWT. Claims carry the
// user's external identifier as the subject and the role by name,
// plus the configured audience and issuer. Expiry is now + ttl.
func NewAccessToken(secret, audience, issuer, subject, role string, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"aud":  audience,
		"iss":  issuer,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken validates a signed token string against the secret,
// audience and issuer it was minted with, and returns its claims.
// Tokens signed with a different method are rejected.
func ParseAccessToken(secret, audience, issuer, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithAudience(audience), jwt.WithIssuer(issuer))
	if err != nil || !tok.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return TokenClaims{}, ErrInvalidToken
	}
	return TokenClaims{Subject: sub, Role: role}, nil
}

// NewRefreshValue returns an opaque refresh-token value: the base64
// form of a SHA-256 digest over 64 bytes of secure random data.
func NewRefreshValue() (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	sum := sha256.Sum256(buf)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}
