package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func IsPgUniqueViolation(err error) bool     { return hasSQLState(err, uniqueViolation) }
func IsPgForeignKeyViolation(err error) bool { return hasSQLState(err, foreignKeyViolation) }

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
