package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrClass      = errors.New("jwtx: token class mismatch")
)

// Verifier validates a token of one expected class and gives back the claims
// if it's legit. Parsing a token with the wrong class's Verifier fails: the
// HMAC is computed over a different secret, so the signature never checks out.
type Verifier struct {
	secret []byte
	issuer string
	class  TokenClass
}

// NewVerifier builds a Verifier for one token class. Issuer is enforced when
// non-empty.
func NewVerifier(secret, issuer string, class TokenClass) (*Verifier, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Verifier{secret: []byte(secret), issuer: issuer, class: class}, nil
}

// Verify parses the compact token, checks the HS256 signature, expiry window,
// issuer, and declared token class.
func (v *Verifier) Verify(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		// Pin the algorithm; "none" or an asymmetric alg must never verify.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSig
		}
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return Claims{}, ErrIssuer
	}
	if claims.TokenClass != v.class {
		return Claims{}, ErrClass
	}

	return claims, nil
}

// mapParseError collapses golang-jwt's error tree into our sentinel set.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}
