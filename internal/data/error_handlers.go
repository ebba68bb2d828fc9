package data

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"deadline_tracker/internal/errdefs"
)

// SQLSTATE codes raised by the schema in migrations/.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// handleError translates driver errors into errdefs sentinels. A foreign key
// violation means the referenced user or assignment is gone; a check violation
// means an enum value the migrations reject.
func handleError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errdefs.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errdefs.ErrAlreadyExists
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", errdefs.ErrNotFound, pgErr.ConstraintName)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", errdefs.ErrValidation, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("repository error: %w", err)
}
