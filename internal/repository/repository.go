// Package repository implements Postgres persistence, one repository per
// aggregate. Invariants that must hold under concurrent writers (the unique
// like pair, the single main photo) are enforced here, at the storage
// boundary, with constraints and transactions.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE for unique constraint violations.
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
