package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalid            = errors.New("invalid input")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ThrottledError is returned while a login or link attempt is cooling down.
type ThrottledError struct {
	WaitSeconds int
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("too many attempts, retry in %ds", e.WaitSeconds)
}

// ErrNoProfile is returned when restaurant-owned data is written before the
// restaurant profile exists.
var ErrNoProfile = fmt.Errorf("%w: create the restaurant profile first", ErrInvalid)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool     { return pgErrCode(err) == "23505" }
func isForeignKeyViolation(err error) bool { return pgErrCode(err) == "23503" }
