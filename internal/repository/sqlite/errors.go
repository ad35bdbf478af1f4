package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"blog-service/internal/domain"
)

// translateError maps a driver error onto the domain error kinds. The
// constraint class comes from the extended result code; sqlite only names the
// offending column in the report text, so that is read to pick the duplicate
// kind.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}

	var se *sqlite.Error
	if !errors.As(err, &se) {
		return domain.StoreFailure(op, err)
	}

	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		report := se.Error()
		switch {
		case strings.Contains(report, "users.username"):
			return domain.ErrDuplicateUsername
		case strings.Contains(report, "users.email"):
			return domain.ErrDuplicateEmail
		}
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return domain.ErrAuthorNotFound
	case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return fmt.Errorf("%w: %s rejected by store", domain.ErrInvalidInput, op)
	}
	return domain.StoreFailure(op, err)
}
