// Package service enforces the invariants between authors and books and runs
// every operation inside a transaction.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf/internal/errs"
	"bookshelf/internal/storage"
	"bookshelf/internal/storage/authors"
	"bookshelf/internal/storage/books"
	"bookshelf/internal/storage/sqlerr"
)

const (
	MsgAuthorNotFound = "author does not exist"
	MsgBookNotFound   = "book does not exist"
	MsgAuthorHasBooks = "author has dependent books"
	MsgIsbnExists     = "isbn already exists"
)

// Transactor is implemented by storage.PGXTransactor.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	InReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// loadForUpdate runs a locking lookup and turns an absent row into a
// NotFoundError carrying notFound.
func loadForUpdate[T any](ctx context.Context, load func(context.Context, int64) (*T, error),
	id int64, notFound string) (*T, error) {

	v, err := load(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, notFound)
	}

	return v, nil
}

// notFoundAs replaces storage.ErrNotFound with a NotFoundError.
func notFoundAs(err error, message string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &errs.NotFoundError{Message: message}
	}

	return err
}

// bookWriteError translates constraint violations raised by writing a book.
func bookWriteError(err error) error {
	switch sqlerr.ErrCode(err) {
	case sqlerr.ForeignKeyViolation:
		return errs.NewValidationError("authorId", MsgAuthorNotFound)
	case sqlerr.UniqueViolation:
		return &errs.ConflictError{Message: MsgIsbnExists}
	default:
		return err
	}
}

// New wires both services to PostgreSQL through pg.
func New(pg *pgxpool.Pool, l *slog.Logger) (*Authors, *Books) {
	tx := storage.NewPGXTransactor(pg)
	ar := authors.NewPGXRepository(pg, l)
	br := books.NewPGXRepository(pg, l)

	return NewAuthors(tx, ar, br, l), NewBooks(tx, br, l)
}
