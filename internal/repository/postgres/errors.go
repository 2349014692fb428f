package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolationCode is the PostgreSQL error code for unique-constraint
// violations. The booking, slug and email uniqueness checks all lean on it
// as the last line of defense under concurrency.
const uniqueViolationCode = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != uniqueViolationCode {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
