package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolationPgconn(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505", ConstraintName: "uq_zone_adjustments_active"}
	wrapped := fmt.Errorf("insert zone adjustment: %w", cause)

	if !IsUniqueViolation(wrapped, "uq_zone_adjustments_active") {
		t.Fatal("expected unique violation on matching constraint")
	}
	if !IsUniqueViolation(wrapped, "") {
		t.Fatal("expected unique violation without constraint filter")
	}
	if IsUniqueViolation(wrapped, "uq_some_other_constraint") {
		t.Fatal("expected no match for a different constraint")
	}
}

func TestIsUniqueViolationPq(t *testing.T) {
	cause := &pq.Error{Code: "23505", Constraint: "uq_zone_adjustments_active"}

	if !IsUniqueViolation(cause, "uq_zone_adjustments_active") {
		t.Fatal("expected unique violation on matching constraint")
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}, "") {
		t.Fatal("foreign key violation must not classify as unique")
	}
}

func TestIsUniqueViolationPlainErrors(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not classify")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated error must not classify")
	}
	if !IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "uq_zone_adjustments_active"`), "uq_zone_adjustments_active") {
		t.Fatal("expected message fallback to match the constraint name")
	}
}
