// Package pgaccounts persists dev identity provider accounts in PostgreSQL.
package pgaccounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatehouse/gatehouse/internal/ports"
)

// errDuplicateEmail carries the raw phrase the error mapper classifies as
// email_exists; the unique index on accounts.email is the source of truth.
var errDuplicateEmail = errors.New("User already registered")

// Store provides account persistence over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store over the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts a new account row.
func (s *Store) Create(ctx context.Context, acct ports.Account) (ports.Account, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (id, email, password_hash, email_confirmed_at, created_at, last_sign_in_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		acct.User.ID,
		acct.User.Email,
		acct.PasswordHash,
		acct.User.EmailConfirmedAt,
		acct.User.CreatedAt,
		acct.User.LastSignInAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ports.Account{}, errDuplicateEmail
		}
		return ports.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return acct, nil
}

// GetByEmail loads an account by email (case-insensitive).
func (s *Store) GetByEmail(ctx context.Context, email string) (ports.Account, error) {
	var acct ports.Account
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, email_confirmed_at, created_at, last_sign_in_at
		FROM accounts
		WHERE lower(email) = lower($1)
	`, email).Scan(
		&acct.User.ID,
		&acct.User.Email,
		&acct.PasswordHash,
		&acct.User.EmailConfirmedAt,
		&acct.User.CreatedAt,
		&acct.User.LastSignInAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ports.Account{}, ports.ErrAccountNotFound
		}
		return ports.Account{}, fmt.Errorf("select account: %w", err)
	}
	return acct, nil
}

// GetByID loads an account by user ID.
func (s *Store) GetByID(ctx context.Context, userID string) (ports.Account, error) {
	var acct ports.Account
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, email_confirmed_at, created_at, last_sign_in_at
		FROM accounts
		WHERE id = $1
	`, userID).Scan(
		&acct.User.ID,
		&acct.User.Email,
		&acct.PasswordHash,
		&acct.User.EmailConfirmedAt,
		&acct.User.CreatedAt,
		&acct.User.LastSignInAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ports.Account{}, ports.ErrAccountNotFound
		}
		return ports.Account{}, fmt.Errorf("select account: %w", err)
	}
	return acct, nil
}

// UpdatePassword replaces the stored password hash for a user.
func (s *Store) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE accounts SET password_hash = $2 WHERE id = $1
	`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrAccountNotFound
	}
	return nil
}

// RecordSignIn stamps the account's last sign-in time.
func (s *Store) RecordSignIn(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE accounts SET last_sign_in_at = now() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("record sign-in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrAccountNotFound
	}
	return nil
}
