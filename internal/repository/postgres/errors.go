package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"blog-service/internal/domain"
)

// SQLSTATE codes from the integrity constraint violation class.
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

const (
	constraintUsersUsername = "users_username_key"
	constraintUsersEmail    = "users_email_key"
)

// translateError maps a pgx error onto the domain error kinds using the
// SQLSTATE and constraint name reported by the server.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return domain.StoreFailure(op, err)
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintUsersUsername:
			return domain.ErrDuplicateUsername
		case constraintUsersEmail:
			return domain.ErrDuplicateEmail
		}
	case codeForeignKeyViolation:
		return domain.ErrAuthorNotFound
	case codeCheckViolation, codeNotNullViolation:
		return fmt.Errorf("%w: %s rejected by store", domain.ErrInvalidInput, op)
	}
	return domain.StoreFailure(op, err)
}
