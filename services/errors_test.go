package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestPgErrorClassification(t *testing.T) {
	fk := fmt.Errorf("insert menu item: %w", &pgconn.PgError{Code: "23503"})
	uniq := &pgconn.PgError{Code: "23505"}

	if !isForeignKeyViolation(fk) || isUniqueViolation(fk) {
		t.Error("wrapped 23503 should classify as a foreign key violation only")
	}
	if !isUniqueViolation(uniq) || isForeignKeyViolation(uniq) {
		t.Error("23505 should classify as a unique violation only")
	}
	if isUniqueViolation(errors.New("boom")) || isForeignKeyViolation(nil) {
		t.Error("non-postgres errors must not classify")
	}
	if !errors.Is(ErrNoProfile, ErrInvalid) {
		t.Error("ErrNoProfile must map to a 400")
	}
}
