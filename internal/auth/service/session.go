package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emberline/staffauth/internal/auth/domain"
	"github.com/emberline/staffauth/internal/auth/store"
	"github.com/emberline/staffauth/pkg/cryptox"
	"github.com/emberline/staffauth/pkg/jwtx"
	"github.com/emberline/staffauth/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers both unknown employee codes and wrong
	// PINs. The two cases are never distinguished so callers cannot probe
	// for account existence.
	ErrInvalidCredentials = errors.New("invalid_credential")

	// ErrTokenInvalid means the token is malformed, carries a bad signature,
	// or names a subject the record store no longer knows.
	ErrTokenInvalid = errors.New("invalid_token")

	// ErrTokenExpired means the token's signature verified but its expiry
	// window has passed.
	ErrTokenExpired = errors.New("token_expired")

	// ErrSessionExpired means the token is otherwise valid but was revoked
	// by a logout still inside the cache window.
	ErrSessionExpired = errors.New("session_expired")

	// ErrUnavailable wraps transient record-store or cache I/O failures.
	// Unlike the other kinds a retry may succeed; retrying is the caller's
	// call, this service never retries internally.
	ErrUnavailable = errors.New("service_unavailable")
)

// Config carries the token lifecycle settings. Built once at process start,
// immutable after.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// SessionService orchestrates credential verification, dual-token issuance,
// refresh rotation, and logout-time revocation. Collaborators come in through
// the constructor so tests can substitute in-memory stores.
type SessionService struct {
	employees   store.Employees
	revocations store.Revocations

	accessSigner    *jwtx.Signer
	refreshSigner   *jwtx.Signer
	accessVerifier  *jwtx.Verifier
	refreshVerifier *jwtx.Verifier

	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewSessionService(employees store.Employees, revocations store.Revocations, cfg Config) (*SessionService, error) {
	accessSigner, err := jwtx.NewSigner(cfg.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("access signer: %w", err)
	}
	refreshSigner, err := jwtx.NewSigner(cfg.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("refresh signer: %w", err)
	}
	accessVerifier, err := jwtx.NewVerifier(cfg.AccessSecret, cfg.Issuer, jwtx.ClassAccess)
	if err != nil {
		return nil, fmt.Errorf("access verifier: %w", err)
	}
	refreshVerifier, err := jwtx.NewVerifier(cfg.RefreshSecret, cfg.Issuer, jwtx.ClassRefresh)
	if err != nil {
		return nil, fmt.Errorf("refresh verifier: %w", err)
	}

	return &SessionService{
		employees:       employees,
		revocations:     revocations,
		accessSigner:    accessSigner,
		refreshSigner:   refreshSigner,
		accessVerifier:  accessVerifier,
		refreshVerifier: refreshVerifier,
		issuer:          cfg.Issuer,
		accessTTL:       cfg.AccessTTL,
		refreshTTL:      cfg.RefreshTTL,
	}, nil
}

// Login verifies the employee's code and PIN, then issues an access/refresh
// pair. No cache writes happen here; revocation state is logout-only.
func (s *SessionService) Login(ctx context.Context, code, pin string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if _, err := s.verifyCredentials(ctx, code, pin); err != nil {
		return nil, err
	}

	pair, err := s.issuePair(code)
	if err != nil {
		return nil, err
	}

	l.Info("employee logged in", "employee_code", code)
	return pair, nil
}

// Logout records the presented bearer token in the revocation cache.
// Idempotent: revoking an already-revoked token is a tolerated no-op.
func (s *SessionService) Logout(ctx context.Context, code, token string) error {
	l := slogx.FromContext(ctx)

	if err := s.revocations.Revoke(ctx, code, token); err != nil {
		return fmt.Errorf("%w: record revocation: %s", ErrUnavailable, err)
	}

	l.Info("employee logged out", "employee_code", code)
	return nil
}

// Refresh issues a brand-new access/refresh pair for an already-authenticated
// employee. The presented refresh token must have been validated by the
// caller (the HTTP boundary's guard) before this is invoked; credentials are
// not re-checked.
func (s *SessionService) Refresh(ctx context.Context, code string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	pair, err := s.issuePair(code)
	if err != nil {
		return nil, err
	}

	l.Info("tokens refreshed", "employee_code", code)
	return pair, nil
}

// Validate checks a presented token end to end: signature and expiry under
// the class-matched secret, the subject still resolving in the record store,
// and absence from the subject's revocation entry. Returns the resolved
// employee record on success.
func (s *SessionService) Validate(ctx context.Context, token string, class jwtx.TokenClass) (domain.Employee, jwtx.Claims, error) {
	verifier := s.accessVerifier
	if class == jwtx.ClassRefresh {
		verifier = s.refreshVerifier
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		return domain.Employee{}, jwtx.Claims{}, mapTokenError(err)
	}

	emp, err := s.employees.GetByCode(ctx, claims.EmployeeCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Employee{}, jwtx.Claims{}, ErrTokenInvalid
		}
		return domain.Employee{}, jwtx.Claims{}, fmt.Errorf("%w: lookup employee: %s", ErrUnavailable, err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.EmployeeCode, token)
	if err != nil {
		return domain.Employee{}, jwtx.Claims{}, fmt.Errorf("%w: check revocation: %s", ErrUnavailable, err)
	}
	if revoked {
		return domain.Employee{}, jwtx.Claims{}, ErrSessionExpired
	}

	return emp, claims, nil
}

// verifyCredentials resolves the employee and compares the PIN against the
// stored argon2id hash. Missing record and hash mismatch collapse into the
// same error.
func (s *SessionService) verifyCredentials(ctx context.Context, code, pin string) (domain.Employee, error) {
	emp, err := s.employees.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Employee{}, ErrInvalidCredentials
		}
		return domain.Employee{}, fmt.Errorf("%w: lookup employee: %s", ErrUnavailable, err)
	}

	if err := cryptox.VerifyPassword(pin, emp.PinHash); err != nil {
		return domain.Employee{}, ErrInvalidCredentials
	}

	return emp, nil
}

// issuePair mints the access and refresh tokens. Both carry identical claims
// content except token class and expiry; each class is signed with its own
// secret.
func (s *SessionService) issuePair(code string) (*domain.TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := s.accessSigner.Sign(jwtx.NewClaims(code, jwtx.ClassAccess, s.accessTTL, s.issuer, now))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := s.refreshSigner.Sign(jwtx.NewClaims(code, jwtx.ClassRefresh, s.refreshTTL, s.issuer, now))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessTTL,
	}, nil
}

// mapTokenError folds jwtx's sentinel set into the service taxonomy.
func mapTokenError(err error) error {
	if errors.Is(err, jwtx.ErrExpired) {
		return ErrTokenExpired
	}
	return ErrTokenInvalid
}
