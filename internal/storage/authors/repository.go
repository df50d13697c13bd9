package authors

import (
	"context"

	"bookshelf/internal/types"
)

// Repository lookups return storage.ErrNotFound when no row matches.
type Repository interface {
	GetById(ctx context.Context, id int64) (*types.Author, error)
	// GetByIdForUpdate locks the row until the surrounding transaction ends.
	GetByIdForUpdate(ctx context.Context, id int64) (*types.Author, error)
	GetAll(ctx context.Context) ([]*types.Author, error)

	Insert(ctx context.Context, name string) (*types.Author, error)
	// Update and DeleteById report the number of affected rows.
	Update(ctx context.Context, id int64, name string) (int64, error)
	DeleteById(ctx context.Context, id int64) (int64, error)
}
