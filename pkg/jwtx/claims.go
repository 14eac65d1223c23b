package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClass separates the two token families. Each class is signed with its
// own secret so an access-secret compromise cannot forge refresh tokens and
// vice versa.
type TokenClass string

const (
	ClassAccess  TokenClass = "access"
	ClassRefresh TokenClass = "refresh"
)

// RoleEmployee is the subject role embedded in every token this service
// issues. Kept as a claim so downstream services can branch on it without a
// record-store lookup.
const RoleEmployee = "employee"

// Claims are the signed token payload. An access/refresh pair minted for the
// same login carries identical content except TokenClass and expiry.
type Claims struct {
	jwt.RegisteredClaims

	// Role of the subject, currently always "employee".
	Role string `json:"role,omitempty"`

	// EmployeeCode is the unique login identifier (e.g. "E100").
	EmployeeCode string `json:"employee_code,omitempty"`

	// TokenClass is "access" or "refresh".
	TokenClass TokenClass `json:"token_class,omitempty"`
}

// NewClaims builds claims for an employee token. The jti is random, so two
// tokens minted in the same instant for the same employee still differ.
func NewClaims(code string, class TokenClass, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   code,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role:         RoleEmployee,
		EmployeeCode: code,
		TokenClass:   class,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
