package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookshelf/internal/types"
)

// passTx runs fn directly and records which kind of transaction was asked for.
type passTx struct {
	writes int
	reads  int
}

func (p *passTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.writes++
	return fn(ctx)
}

func (p *passTx) InReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.reads++
	return fn(ctx)
}

type mockAuthors struct {
	mock.Mock
}

func (m *mockAuthors) GetById(ctx context.Context, id int64) (*types.Author, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*types.Author)
	return a, args.Error(1)
}

func (m *mockAuthors) GetByIdForUpdate(ctx context.Context, id int64) (*types.Author, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*types.Author)
	return a, args.Error(1)
}

func (m *mockAuthors) GetAll(ctx context.Context) ([]*types.Author, error) {
	args := m.Called(ctx)
	a, _ := args.Get(0).([]*types.Author)
	return a, args.Error(1)
}

func (m *mockAuthors) Insert(ctx context.Context, name string) (*types.Author, error) {
	args := m.Called(ctx, name)
	a, _ := args.Get(0).(*types.Author)
	return a, args.Error(1)
}

func (m *mockAuthors) Update(ctx context.Context, id int64, name string) (int64, error) {
	args := m.Called(ctx, id, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAuthors) DeleteById(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockBooks struct {
	mock.Mock
}

func (m *mockBooks) GetById(ctx context.Context, id int64) (*types.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*types.Book)
	return b, args.Error(1)
}

func (m *mockBooks) GetByIdForUpdate(ctx context.Context, id int64) (*types.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*types.Book)
	return b, args.Error(1)
}

func (m *mockBooks) GetByIsbn(ctx context.Context, isbn string) (*types.Book, error) {
	args := m.Called(ctx, isbn)
	b, _ := args.Get(0).(*types.Book)
	return b, args.Error(1)
}

func (m *mockBooks) GetAll(ctx context.Context) ([]*types.Book, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]*types.Book)
	return b, args.Error(1)
}

func (m *mockBooks) GetByAuthorId(ctx context.Context, authorId int64) ([]*types.Book, error) {
	args := m.Called(ctx, authorId)
	b, _ := args.Get(0).([]*types.Book)
	return b, args.Error(1)
}

func (m *mockBooks) CountByAuthorId(ctx context.Context, authorId int64) (int64, error) {
	args := m.Called(ctx, authorId)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBooks) Insert(ctx context.Context, book *types.Book) (*types.Book, error) {
	args := m.Called(ctx, book)
	b, _ := args.Get(0).(*types.Book)
	return b, args.Error(1)
}

func (m *mockBooks) Update(ctx context.Context, book *types.Book) (int64, error) {
	args := m.Called(ctx, book)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBooks) DeleteById(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
