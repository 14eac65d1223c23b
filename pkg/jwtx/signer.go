package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret is returned when a Signer or Verifier is constructed without
// key material.
var ErrNoSecret = errors.New("jwtx: empty secret")

// Signer signs claims with an HS256 secret. One Signer exists per token
// class, each holding that class's secret.
type Signer struct {
	secret []byte
}

// NewSigner wraps an HS256 secret.
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign produces the compact serialized token for the given claims.
func (s *Signer) Sign(c Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(s.secret)
}
