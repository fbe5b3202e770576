package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicateKey is returned when an insert breaks a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrForeignKeyViolated is returned when an insert references a missing row.
	ErrForeignKeyViolated = errors.New("foreign key violated")
)

// IsConstraintViolation reports whether err is a uniqueness or
// referential-integrity rejection from the store.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, ErrForeignKeyViolated)
}

// ConstraintKind names the violated constraint, or "" if err is not one.
func ConstraintKind(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateKey):
		return "unique"
	case errors.Is(err, ErrForeignKeyViolated):
		return "foreign_key"
	}
	return ""
}

// translateError maps driver constraint errors onto the package sentinels,
// keeping the original error in the chain. Postgres errors arrive already
// translated by gorm; SQLite errors are classified by result code.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrForeignKeyViolated, err)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %w", ErrForeignKeyViolated, err)
		}
		// Without extended result codes only the primary code is set.
		if sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := sqliteErr.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
			case strings.Contains(msg, "FOREIGN KEY"):
				return fmt.Errorf("%w: %w", ErrForeignKeyViolated, err)
			}
		}
	}
	return err
}
