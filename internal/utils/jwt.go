package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification outcomes. Callers branch on these to decide the HTTP
// answer; the parser never leaks library internals.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenMalformed = errors.New("token missing required claims")
)

// Claims is the access-token payload. The subject is the user's email, the
// stable external identifier; role and plan ride along so the authorization
// gates never need a database round trip. IsAdmin is derived from the role
// at issue time and lets the plan gate bypass entitlement checks.
type Claims struct {
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
	Plan    string `json:"plan,omitempty"`
	jwt.RegisteredClaims
}

// Email returns the token subject.
func (c *Claims) Email() string { return c.Subject }

// AccessToken is a signed JWT together with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken builds and signs an HS256 JWT. Plan may be empty when the
// user holds no active subscription; the claim is then omitted entirely.
func NewAccessToken(secret, email, role string, isAdmin bool, plan string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := Claims{
		Role:    role,
		IsAdmin: isAdmin,
		Plan:    plan,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry and returns the typed
// claims. Only HS256 is accepted; any other algorithm, a bad signature or
// garbage input maps to ErrTokenInvalid, expiry to ErrTokenExpired, and a
// structurally valid token without a subject to ErrTokenMalformed.
func ParseAccessToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
