package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error taxonomy shared by all services. Handlers map these onto HTTP
// statuses; anything else is an internal error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrNotOwner           = errors.New("not authorized to access this resource")
	ErrDuplicateEmail     = errors.New("client with this email already exists")
	ErrDuplicateUser      = errors.New("user with this email already exists")
	ErrDuplicateNumber    = errors.New("invoice number already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// authorize is the single ownership predicate: a resource may only be read
// or mutated by the user it belongs to. Callers must check existence first
// so not-found and not-owned stay distinguishable.
func authorize(resourceUserID, requesterID int) error {
	if resourceUserID != requesterID {
		return ErrNotOwner
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation. Pre-checks race with concurrent inserts, so the constraint is
// still the final arbiter.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
