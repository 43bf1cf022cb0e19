package data

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrRecordNotFound    = errors.New("models: record not found")
	ErrDuplicateISBN     = errors.New("models: duplicate isbn")
	ErrDuplicateEmail    = errors.New("models: duplicate email")
	ErrDuplicateUsername = errors.New("models: duplicate username")
	ErrBookUnavailable   = errors.New("models: book is currently checked out")
	ErrActiveLoans       = errors.New("models: cannot delete: active loan exists")
	ErrInvalidDate       = errors.New("models: invalid date")
	ErrInvalidDateRange  = errors.New("models: loan date is after due date")
)

// isUniqueViolation reports whether err is a uniqueness-constraint violation
// involving the named column or index, for either backend driver.
func isUniqueViolation(err error, name string) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && strings.Contains(pqErr.Error(), name)
	}

	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique &&
			strings.Contains(sqErr.Error(), name)
	}

	return false
}
