package service

import (
	"context"
	"log/slog"
	"strconv"

	"bookshelf/internal/errs"
	"bookshelf/internal/storage/authors"
	"bookshelf/internal/storage/books"
	"bookshelf/internal/storage/sqlerr"
	"bookshelf/internal/types"
)

type Authors struct {
	tx      Transactor
	authors authors.Repository
	books   books.Repository
	l       *slog.Logger
}

func NewAuthors(tx Transactor, ar authors.Repository, br books.Repository, l *slog.Logger) *Authors {
	return &Authors{tx: tx, authors: ar, books: br, l: l}
}

func (s *Authors) GetAuthorById(ctx context.Context, id int64) (*types.Author, error) {
	var author *types.Author
	err := s.tx.InReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		author, err = s.authors.GetById(ctx, id)
		return err
	})
	if err != nil {
		return nil, notFoundAs(err, MsgAuthorNotFound)
	}

	return author, nil
}

func (s *Authors) GetAllAuthors(ctx context.Context) ([]*types.Author, error) {
	var all []*types.Author
	err := s.tx.InReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		all, err = s.authors.GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if all == nil {
		all = make([]*types.Author, 0)
	}

	return all, nil
}

func (s *Authors) CreateAuthor(ctx context.Context, name string) (*types.Author, error) {
	var created *types.Author
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.authors.Insert(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.l.InfoContext(ctx, "Created author "+strconv.FormatInt(created.Id, 10))

	return created, nil
}

// UpdateAuthor locks the author row before renaming it so a concurrent delete
// either waits or has already won.
func (s *Authors) UpdateAuthor(ctx context.Context, id int64, name string) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := loadForUpdate(ctx, s.authors.GetByIdForUpdate, id, MsgAuthorNotFound); err != nil {
			return err
		}

		_, err := s.authors.Update(ctx, id, name)
		return err
	})
}

// DeleteAuthorById refuses to delete an author that books still reference.
//
// The author row is locked before counting: the foreign key check of a
// concurrent book insert or update needs a KEY SHARE lock on that row, so it
// waits for this transaction and then fails against the deleted author.
func (s *Authors) DeleteAuthorById(ctx context.Context, id int64) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := loadForUpdate(ctx, s.authors.GetByIdForUpdate, id, MsgAuthorNotFound); err != nil {
			return err
		}

		n, err := s.books.CountByAuthorId(ctx, id)
		if err != nil {
			return err
		}

		if n > 0 {
			s.l.WarnContext(ctx, "Author "+strconv.FormatInt(id, 10)+" cannot be deleted, "+
				strconv.FormatInt(n, 10)+" book(s) reference it")
			return &errs.ConflictError{Message: MsgAuthorHasBooks}
		}

		_, err = s.authors.DeleteById(ctx, id)
		if sqlerr.ErrCode(err) == sqlerr.ForeignKeyViolation {
			return &errs.ConflictError{Message: MsgAuthorHasBooks}
		}

		return err
	})
}
