// Package auth creates and parses the signed bearer tokens used for
// sessions. Access and refresh tokens are signed with distinct secrets and
// carry distinct lifetimes, so neither kind can ever pass verification as
// the other.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mediatube/accounts/internal/common"
)

// Purpose selects which secret and lifetime a token is bound to.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

// Claims carries the account id as the registered subject plus an explicit
// token_type tag. The tag is defense in depth: the distinct secrets already
// reject cross-purpose tokens.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
}

// Codec mints and verifies session tokens.
type Codec struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessValidity  time.Duration
	refreshValidity time.Duration
}

func NewCodec(accessSecret, refreshSecret []byte, accessValidity, refreshValidity time.Duration) *Codec {
	return &Codec{
		accessSecret:    accessSecret,
		refreshSecret:   refreshSecret,
		accessValidity:  accessValidity,
		refreshValidity: refreshValidity,
	}
}

// MintAccess produces a signed access token for the given account id with
// expiry = now + access validity.
func (c *Codec) MintAccess(userID string) (string, error) {
	return c.mint(userID, PurposeAccess, c.accessSecret, c.accessValidity)
}

// MintRefresh produces a signed refresh token for the given account id with
// expiry = now + refresh validity.
func (c *Codec) MintRefresh(userID string) (string, error) {
	return c.mint(userID, PurposeRefresh, c.refreshSecret, c.refreshValidity)
}

func (c *Codec) mint(userID string, purpose Purpose, secret []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
			// jti keeps tokens minted within the same second distinct
			ID: uuid.NewString(),
		},
		TokenType: string(purpose),
	})

	return token.SignedString(secret)
}

// Verify checks the signature and expiry of tokenString against the secret
// for the given purpose and returns the account id it was minted for.
// Tokens are considered expired exactly at their expiry instant: no leeway.
// Returns common.ErrTokenExpired for lapsed tokens and common.ErrInvalidToken
// for anything else (bad signature, wrong purpose, malformed payload).
func (c *Codec) Verify(tokenString string, purpose Purpose) (string, error) {
	secret := c.accessSecret
	if purpose == PurposeRefresh {
		secret = c.refreshSecret
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.TokenType != string(purpose) || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
