// Package login holds the access token and scope types exchanged with the
// Controller Service during player admission.
package login

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotJWT = errors.New("access token is not a jwt")

// AccessToken is opaque to the session layer; Get returns exactly what the
// Controller Service issued.
type AccessToken struct {
	raw string
}

func (t *AccessToken) Get() string {
	if t == nil {
		return ""
	}
	return t.raw
}

func (t *AccessToken) String() string {
	return t.Get()
}

// Claims is the readable part of a login service token.
type Claims struct {
	Account    string
	Credential string
	Gamespace  string
	Scopes     Scopes
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the token carries an expiry before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Account    string `json:"acc,omitempty"`
	Credential string `json:"cred,omitempty"`
	Gamespace  string `json:"gmsp,omitempty"`
	Scopes     string `json:"sch,omitempty"`
}

// Claims decodes the token payload without verifying its signature. Only the
// login service holds the key; the game server reads claims for display and
// bookkeeping, never for authorization.
func (t *AccessToken) Claims() (*Claims, error) {
	raw := t.Get()
	if strings.Count(raw, ".") != 2 {
		return nil, ErrNotJWT
	}

	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	out := &Claims{
		Account:    claims.Account,
		Credential: claims.Credential,
		Gamespace:  claims.Gamespace,
		Scopes:     ParseScopes(claims.Scopes),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Service mints access tokens from the raw strings the Controller Service
// returns.
type Service interface {
	NewAccessToken(raw string) *AccessToken
}

type service struct{}

func NewService() Service {
	return service{}
}

func (service) NewAccessToken(raw string) *AccessToken {
	return &AccessToken{raw: raw}
}
