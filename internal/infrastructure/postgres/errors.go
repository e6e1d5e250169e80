package postgres

import (
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/natours-auth/pkg/apperror"
)

const codeUniqueViolation = "23505"

// Detail looks like: Key (email)=(a@b.com) already exists.
var uniqueDetail = regexp.MustCompile(`Key \(([^)]+)\)=\((.*)\) already exists`)

// translate maps unique violations onto DuplicateKeyError. Malformed ids are
// rejected by checkID before a query runs, so anything else is returned unchanged.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code != codeUniqueViolation {
		return err
	}
	dup := &apperror.DuplicateKeyError{Field: pgErr.ColumnName, Err: err}
	if m := uniqueDetail.FindStringSubmatch(pgErr.Detail); m != nil {
		dup.Field, dup.Value = m[1], m[2]
	}
	return dup
}
