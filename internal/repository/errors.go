package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Storage error kinds shared by every repository.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateEmail   = errors.New("an account with this email already exists")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// translateError maps pgx errors onto the repository error kinds.
// Anything that is not a missing row or a unique violation is reported as ErrStoreUnavailable.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateEmail
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// requireAffected turns a zero-row UPDATE/DELETE into ErrNotFound.
func requireAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
