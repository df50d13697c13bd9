// Package sqlerr turns PostgreSQL driver errors into codes the service layer
// can switch on without knowing SQLSTATE values.
package sqlerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type Code uint8

const (
	Other Code = iota
	ForeignKeyViolation
	UniqueViolation
	NotNullViolation
	CheckViolation
)

// MapCode maps a SQLSTATE to a Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	default:
		return Other
	}
}

// Error is a normalised constraint error. The driver error stays reachable
// through Unwrap.
type Error struct {
	Code           Code
	DatabaseCode   string
	Message        string
	TableName      string
	ColumnName     string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// Convert wraps a *pgconn.PgError found in err's chain into an *Error.
// Any other error, nil included, is returned unchanged.
func Convert(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	return &Error{
		Code:           MapCode(pgErr.Code),
		DatabaseCode:   pgErr.Code,
		Message:        pgErr.Message,
		TableName:      pgErr.TableName,
		ColumnName:     pgErr.ColumnName,
		ConstraintName: pgErr.ConstraintName,
		driverErr:      err,
	}
}

// ErrCode reports the Code of the first *Error or *pgconn.PgError in err's
// chain, and Other when there is none.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}

	return Other
}
