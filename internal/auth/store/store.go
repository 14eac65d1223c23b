package store

import (
	"context"
	"errors"

	"github.com/emberline/staffauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Employees is the record store this core reads credentials from. Concrete
// drivers (sqlite) implement it; tests substitute an in-memory sqlite file.
type Employees interface {
	// GetByCode returns the employee whose login code matches.
	GetByCode(ctx context.Context, code string) (domain.Employee, error)

	// CreateEmployee inserts a new record (id is provided by app via ULID).
	// Used by seeding and tests; the login path never writes.
	CreateEmployee(ctx context.Context, e domain.Employee) error

	// Ping verifies the underlying connection is still alive.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

// Revocations is the TTL-bounded blacklist consulted on every validate and
// appended to on logout. One entry per employee code holds every token
// revoked inside the cache window; the whole entry expires at once, at which
// point all prior revocations for that code are forgotten.
type Revocations interface {
	// Revoke appends a token to the code's revoked set and refreshes the
	// entry's TTL. Revoking an already-revoked token is a no-op append.
	Revoke(ctx context.Context, code, token string) error

	// IsRevoked reports whether the exact token string is present in the
	// code's revoked set. Absent or expired entries read as empty.
	IsRevoked(ctx context.Context, code, token string) (bool, error)

	// Ping verifies the cache connection is still alive.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}
