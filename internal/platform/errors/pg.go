package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes the turn store can hit
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
	pgBadTextRep          = "22P02"
	pgSerialization       = "40001"
	pgDeadlock            = "40P01"
	pgLockNotAvailable    = "55P03"
	pgReadOnly            = "25006"
	pgCannotConnectNow    = "57P03"
	pgQueryCanceled       = "57014"
)

var pgCodes = map[string]ErrorCode{
	pgUniqueViolation:     ErrorCodeDuplicateKey,
	pgForeignKeyViolation: ErrorCodeInvalidArgument,
	pgNotNullViolation:    ErrorCodeValidation,
	pgCheckViolation:      ErrorCodeValidation,
	pgStringTooLong:       ErrorCodeInvalidArgument,
	pgBadTextRep:          ErrorCodeInvalidArgument,
	pgSerialization:       ErrorCodeDB,
	pgDeadlock:            ErrorCodeDB,
	pgLockNotAvailable:    ErrorCodeDB,
	pgReadOnly:            ErrorCodeUnavailable,
	pgCannotConnectNow:    ErrorCodeUnavailable,
	pgQueryCanceled:       ErrorCodeTimeout,
}

// ExtractPgError returns the root *pgconn.PgError, if any
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a Postgres error with the given SQLSTATE
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsDuplicateKey reports a unique constraint violation
func IsDuplicateKey(err error) bool { return IsSQLState(err, pgUniqueViolation) }

// DBErrorCode maps a Postgres error to a code; ok is false for non-Postgres errors
func DBErrorCode(err error) (ErrorCode, bool) {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if c, known := pgCodes[pgErr.Code]; known {
		return c, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a database error with a mapped code; pgx.ErrNoRows becomes NotFound
func FromPostgres(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case stderrs.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrorCodeNotFound, msg)
	case stderrs.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrorCodeTimeout, msg)
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	e := Wrap(err, code, msg)
	if pgErr, ok := ExtractPgError(err); ok && strings.TrimSpace(pgErr.ColumnName) != "" {
		e = WithField(e, pgErr.ColumnName)
	}
	return e
}

// IsRetryable reports transient database contention worth a retry.
// Local cancellations are never retryable
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := ExtractPgError(err); ok {
		switch pgErr.Code {
		case pgSerialization, pgDeadlock, pgLockNotAvailable:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	for _, frag := range []string{
		"commit unexpectedly resulted in rollback",
		"deadlock detected",
		"could not serialize access",
		"terminating connection due to administrator command",
	} {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
