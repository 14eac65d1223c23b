package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/emberline/staffauth/internal/auth/domain"
	"github.com/emberline/staffauth/internal/auth/store"

	_ "modernc.org/sqlite"
)

// Store is the sqlite-backed employee record store.
type Store struct {
	db *sql.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) GetByCode(ctx context.Context, code string) (domain.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, code, name, region, pin_hash, created_at, updated_at
		FROM employees
		WHERE code = ?`, code)

	var e domain.Employee
	err := row.Scan(&e.ID, &e.Code, &e.Name, &e.Region, &e.PinHash, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.Employee{}, mapNotFound(err)
	}
	return e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, e domain.Employee) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, code, name, region, pin_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Code, e.Name, e.Region, e.PinHash, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite surfaces SQLITE_CONSTRAINT_UNIQUE in the message;
	// there is no exported sentinel to errors.Is against.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
