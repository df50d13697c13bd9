package books

import (
	"context"

	"bookshelf/internal/types"
)

// Repository lookups return storage.ErrNotFound when no row matches. Reads
// other than GetByIdForUpdate join the author to fill AuthorName.
type Repository interface {
	GetById(ctx context.Context, id int64) (*types.Book, error)
	// GetByIdForUpdate locks the book row (only) until the surrounding
	// transaction ends.
	GetByIdForUpdate(ctx context.Context, id int64) (*types.Book, error)
	GetByIsbn(ctx context.Context, isbn string) (*types.Book, error)
	GetAll(ctx context.Context) ([]*types.Book, error)
	GetByAuthorId(ctx context.Context, authorId int64) ([]*types.Book, error)
	CountByAuthorId(ctx context.Context, authorId int64) (int64, error)

	Insert(ctx context.Context, book *types.Book) (*types.Book, error)
	// Update and DeleteById report the number of affected rows.
	Update(ctx context.Context, book *types.Book) (int64, error)
	DeleteById(ctx context.Context, id int64) (int64, error)
}
