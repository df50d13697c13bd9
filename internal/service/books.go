package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"bookshelf/internal/errs"
	"bookshelf/internal/storage"
	"bookshelf/internal/storage/books"
	"bookshelf/internal/types"
)

type Books struct {
	tx    Transactor
	books books.Repository
	l     *slog.Logger
}

func NewBooks(tx Transactor, br books.Repository, l *slog.Logger) *Books {
	return &Books{tx: tx, books: br, l: l}
}

func (s *Books) GetBookById(ctx context.Context, id int64) (*types.Book, error) {
	var book *types.Book
	err := s.tx.InReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		book, err = s.books.GetById(ctx, id)
		return err
	})
	if err != nil {
		return nil, notFoundAs(err, MsgBookNotFound)
	}

	return book, nil
}

func (s *Books) GetAllBooks(ctx context.Context) ([]*types.Book, error) {
	return s.list(ctx, s.books.GetAll)
}

func (s *Books) GetBooksByAuthorId(ctx context.Context, authorId int64) ([]*types.Book, error) {
	return s.list(ctx, func(ctx context.Context) ([]*types.Book, error) {
		return s.books.GetByAuthorId(ctx, authorId)
	})
}

func (s *Books) list(ctx context.Context, fetch func(ctx context.Context) ([]*types.Book, error)) ([]*types.Book, error) {
	var all []*types.Book
	err := s.tx.InReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		all, err = fetch(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if all == nil {
		all = make([]*types.Book, 0)
	}

	return all, nil
}

// CreateBook rejects an ISBN any existing book already holds. Author
// existence is left to the foreign key; its violation comes back as a
// ValidationError on authorId.
func (s *Books) CreateBook(ctx context.Context, title, isbn string, authorId int64) (*types.Book, error) {
	var created *types.Book
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		_, err := s.books.GetByIsbn(ctx, isbn)
		if err == nil {
			return &errs.ConflictError{Message: MsgIsbnExists}
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		created, err = s.books.Insert(ctx, &types.Book{
			Title:    title,
			Isbn:     isbn,
			AuthorId: authorId,
		})
		return bookWriteError(err)
	})
	if err != nil {
		return nil, err
	}

	s.l.InfoContext(ctx, "Created book "+strconv.FormatInt(created.Id, 10)+" ("+created.Isbn+")")

	return created, nil
}

// UpdateBook checks the ISBN before the book's existence, so a missing book
// whose new ISBN collides reports the conflict.
func (s *Books) UpdateBook(ctx context.Context, id int64, title, isbn string, authorId int64) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		holder, err := s.books.GetByIsbn(ctx, isbn)
		switch {
		case err == nil:
			if holder.Id != id {
				return &errs.ConflictError{Message: MsgIsbnExists}
			}
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}

		if _, err := loadForUpdate(ctx, s.books.GetByIdForUpdate, id, MsgBookNotFound); err != nil {
			return err
		}

		_, err = s.books.Update(ctx, &types.Book{
			Id:       id,
			Title:    title,
			Isbn:     isbn,
			AuthorId: authorId,
		})
		return bookWriteError(err)
	})
}

func (s *Books) DeleteBookById(ctx context.Context, id int64) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := loadForUpdate(ctx, s.books.GetByIdForUpdate, id, MsgBookNotFound); err != nil {
			return err
		}

		_, err := s.books.DeleteById(ctx, id)
		return err
	})
}
