package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	tests := []struct {
		state string
		want  Code
	}{
		{"23503", ForeignKeyViolation},
		{"23505", UniqueViolation},
		{"23502", NotNullViolation},
		{"23514", CheckViolation},
		{"40001", Other},
		{"", Other},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapCode(tt.state), tt.state)
	}
}

func TestConvert_PgError(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "books_isbn_key"`,
		TableName:      "books",
		ConstraintName: "books_isbn_key",
	}

	err := Convert(fmt.Errorf("inserting book: %w", pgErr))

	var sqlErr *Error
	require.True(t, errors.As(err, &sqlErr))
	assert.Equal(t, UniqueViolation, sqlErr.Code)
	assert.Equal(t, "books", sqlErr.TableName)
	assert.Equal(t, "books_isbn_key", sqlErr.ConstraintName)
	assert.True(t, errors.Is(err, pgErr))
}

func TestConvert_PassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("connection reset")

	assert.Same(t, plain, Convert(plain))
	assert.NoError(t, Convert(nil))
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, ForeignKeyViolation, ErrCode(&pgconn.PgError{Code: "23503"}))
	assert.Equal(t, ForeignKeyViolation, ErrCode(Convert(&pgconn.PgError{Code: "23503"})))
	assert.Equal(t, Other, ErrCode(errors.New("boom")))
	assert.Equal(t, Other, ErrCode(nil))
}
