package service

import (
	"context"
	"errors"
	"testing"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/errs"
	"bookshelf/internal/storage"
	"bookshelf/internal/storage/sqlerr"
	"bookshelf/internal/testutil"
	"bookshelf/internal/types"
)

func newAuthorsUnderTest() (*Authors, *passTx, *mockAuthors, *mockBooks) {
	tx := &passTx{}
	ar := &mockAuthors{}
	br := &mockBooks{}
	return NewAuthors(tx, ar, br, testutil.DiscardLogger()), tx, ar, br
}

func TestGetAuthorById(t *testing.T) {
	s, tx, ar, _ := newAuthorsUnderTest()
	ctx := context.Background()
	ar.On("GetById", ctx, int64(1)).Return(&types.Author{Id: 1, Name: "Akutagawa"}, nil)

	a, err := s.GetAuthorById(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, "Akutagawa", a.Name)
	assert.Equal(t, 1, tx.reads)
	assert.Equal(t, 0, tx.writes)
}

func TestGetAuthorById_NotFound(t *testing.T) {
	s, _, ar, _ := newAuthorsUnderTest()
	ctx := context.Background()
	ar.On("GetById", ctx, int64(7)).Return(nil, storage.ErrNotFound)

	_, err := s.GetAuthorById(ctx, 7)

	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, MsgAuthorNotFound, nf.Message)
}

func TestGetAllAuthors_NeverNil(t *testing.T) {
	s, _, ar, _ := newAuthorsUnderTest()
	ctx := context.Background()
	ar.On("GetAll", ctx).Return(nil, nil)

	all, err := s.GetAllAuthors(ctx)

	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestCreateAuthor(t *testing.T) {
	s, tx, ar, _ := newAuthorsUnderTest()
	ctx := context.Background()
	ar.On("Insert", ctx, "Akutagawa").Return(&types.Author{Id: 1, Name: "Akutagawa"}, nil)

	a, err := s.CreateAuthor(ctx, "Akutagawa")

	require.NoError(t, err)
	assert.Equal(t, int64(1), a.Id)
	assert.Equal(t, 1, tx.writes)
}

func TestUpdateAuthor(t *testing.T) {
	s, _, ar, _ := newAuthorsUnderTest()
	ctx := context.Background()
	ar.On("GetByIdForUpdate", ctx, int64(1)).Return(&types.Author{Id: 1, Name: "Old"}, nil)
	ar.On("Update", ctx, int64(1), "New").Return(int64(1), nil)

	require.NoError(t, s.UpdateAuthor(ctx, 1, "New"))
	ar.AssertExpectations(t)
}

func TestUpdateAuthor_NotFound(t *testing.T) {
	s, _, ar, _ := newAuthorsUnderTest()
	ctx := context.Background()
	ar.On("GetByIdForUpdate", ctx, int64(9)).Return(nil, storage.ErrNotFound)

	err := s.UpdateAuthor(ctx, 9, "New")

	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, MsgAuthorNotFound, nf.Message)
	ar.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAuthor_LookupFailure(t *testing.T) {
	s, _, ar, _ := newAuthorsUnderTest()
	ctx := context.Background()
	boom := errors.New("connection reset")
	ar.On("GetByIdForUpdate", ctx, int64(1)).Return(nil, boom)

	err := s.UpdateAuthor(ctx, 1, "New")

	assert.ErrorIs(t, err, boom)
}

func TestDeleteAuthorById(t *testing.T) {
	s, _, ar, br := newAuthorsUnderTest()
	ctx := context.Background()
	ar.On("GetByIdForUpdate", ctx, int64(1)).Return(&types.Author{Id: 1}, nil)
	br.On("CountByAuthorId", ctx, int64(1)).Return(int64(0), nil)
	ar.On("DeleteById", ctx, int64(1)).Return(int64(1), nil)

	require.NoError(t, s.DeleteAuthorById(ctx, 1))
	ar.AssertExpectations(t)
	br.AssertExpectations(t)
}

func TestDeleteAuthorById_NotFound(t *testing.T) {
	s, _, ar, br := newAuthorsUnderTest()
	ctx := context.Background()
	ar.On("GetByIdForUpdate", ctx, int64(1)).Return(nil, storage.ErrNotFound)

	err := s.DeleteAuthorById(ctx, 1)

	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
	br.AssertNotCalled(t, "CountByAuthorId", mock.Anything, mock.Anything)
	ar.AssertNotCalled(t, "DeleteById", mock.Anything, mock.Anything)
}

func TestDeleteAuthorById_HasBooks(t *testing.T) {
	s, _, ar, br := newAuthorsUnderTest()
	ctx := context.Background()
	ar.On("GetByIdForUpdate", ctx, int64(1)).Return(&types.Author{Id: 1}, nil)
	br.On("CountByAuthorId", ctx, int64(1)).Return(int64(2), nil)

	err := s.DeleteAuthorById(ctx, 1)

	var c *errs.ConflictError
	require.ErrorAs(t, err, &c)
	assert.Equal(t, MsgAuthorHasBooks, c.Message)
	ar.AssertNotCalled(t, "DeleteById", mock.Anything, mock.Anything)
}

func TestDeleteAuthorById_ForeignKeyRace(t *testing.T) {
	s, _, ar, br := newAuthorsUnderTest()
	ctx := context.Background()
	ar.On("GetByIdForUpdate", ctx, int64(1)).Return(&types.Author{Id: 1}, nil)
	br.On("CountByAuthorId", ctx, int64(1)).Return(int64(0), nil)
	ar.On("DeleteById", ctx, int64(1)).
		Return(int64(0), sqlerr.Convert(&pgconn.PgError{Code: "23503", Message: "fk"}))

	err := s.DeleteAuthorById(ctx, 1)

	var c *errs.ConflictError
	require.ErrorAs(t, err, &c)
	assert.Equal(t, MsgAuthorHasBooks, c.Message)
}

func TestAuthorsAndBooks_Integration(t *testing.T) {
	pool := testutil.NewPool(t)
	l := testutil.DiscardLogger()
	authorsSvc, booksSvc := New(pool, l)
	ctx := context.Background()

	author, err := authorsSvc.CreateAuthor(ctx, "Akutagawa")
	require.NoError(t, err)

	book, err := booksSvc.CreateBook(ctx, "Rashomon", "9784101010014", author.Id)
	require.NoError(t, err)

	byAuthor, err := booksSvc.GetBooksByAuthorId(ctx, author.Id)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, book.Id, byAuthor[0].Id)
	assert.Equal(t, "Akutagawa", byAuthor[0].AuthorName)

	var c *errs.ConflictError
	require.ErrorAs(t, authorsSvc.DeleteAuthorById(ctx, author.Id), &c)

	_, err = booksSvc.CreateBook(ctx, "Rashomon again", "9784101010014", author.Id)
	require.ErrorAs(t, err, &c)
	assert.Equal(t, MsgIsbnExists, c.Message)

	_, err = booksSvc.CreateBook(ctx, "Orphan", "9790000000001", author.Id+1000)
	var v *errs.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, MsgAuthorNotFound, v.Fields["authorId"])

	require.NoError(t, booksSvc.UpdateBook(ctx, book.Id, "Rashomon and Other Stories", "9784101010014", author.Id))
	got, err := booksSvc.GetBookById(ctx, book.Id)
	require.NoError(t, err)
	assert.Equal(t, "Rashomon and Other Stories", got.Title)

	require.NoError(t, booksSvc.DeleteBookById(ctx, book.Id))
	require.NoError(t, authorsSvc.DeleteAuthorById(ctx, author.Id))

	var nf *errs.NotFoundError
	_, err = authorsSvc.GetAuthorById(ctx, author.Id)
	require.ErrorAs(t, err, &nf)
	require.ErrorAs(t, booksSvc.DeleteBookById(ctx, book.Id), &nf)
}
