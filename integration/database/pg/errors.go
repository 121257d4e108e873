package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToParseDBConfig = errors.New("failed to parse db config")
	ErrFailedToOpenDBConn    = errors.New("failed to open db connection")
	ErrDBNotReady            = errors.New("database did not become ready within the given time period")
	ErrHealthcheckFailed     = errors.New("database healthcheck failed")
	ErrMigrationFailed       = errors.New("failed to apply migrations")
	ErrNilPool               = errors.New("nil connection pool")
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// IsNotFoundError reports whether err means no rows were returned.
func IsNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError reports a unique constraint violation.
func IsDuplicateKeyError(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolation reports a foreign key constraint violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
