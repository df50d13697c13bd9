package books

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bookshelf/internal/storage"
	"bookshelf/internal/storage/sqlerr"
	"bookshelf/internal/types"
)

const (
	table       = "books"
	authorTable = "authors"
)

var (
	bookColumns = []any{"id", "title", "isbn", "author_id"}
	// joinedColumns qualifies every column since both tables have an id
	joinedColumns = []any{
		goqu.C("id").Table(table),
		goqu.C("title").Table(table),
		goqu.C("isbn").Table(table),
		goqu.C("author_id").Table(table),
		goqu.C("name").Table(authorTable).As("author_name"),
	}
)

func NewPGXRepository(pg storage.Querier, l *slog.Logger) Repository {
	return &pgxRepo{pg: pg, g: goqu.Dialect("postgres"), l: l}
}

type pgxRepo struct {
	pg storage.Querier
	g  goqu.DialectWrapper
	l  *slog.Logger
}

type pgxBook struct {
	Id         int64  `db:"id"`
	Title      string `db:"title"`
	Isbn       string `db:"isbn"`
	AuthorId   int64  `db:"author_id"`
	AuthorName string `db:"author_name"`
}

func (b *pgxBook) intoCommon() *types.Book {
	return &types.Book{
		Id:         b.Id,
		Title:      b.Title,
		Isbn:       b.Isbn,
		AuthorId:   b.AuthorId,
		AuthorName: b.AuthorName,
	}
}

func (p *pgxRepo) selectJoined() *goqu.SelectDataset {
	return p.g.From(table).
		Select(joinedColumns...).
		Join(goqu.T(authorTable), goqu.On(
			goqu.C("id").Table(authorTable).
				Eq(goqu.C("author_id").Table(table)),
		))
}

func (p *pgxRepo) selectForUpdate(id int64) *goqu.SelectDataset {
	return p.g.From(table).
		Select(bookColumns...).
		Where(goqu.C("id").Eq(id)).
		ForUpdate(exp.Wait)
}

func (p *pgxRepo) GetById(ctx context.Context, id int64) (*types.Book, error) {
	return p.getOne(ctx, p.selectJoined().Where(goqu.C("id").Table(table).Eq(id)))
}

func (p *pgxRepo) GetByIdForUpdate(ctx context.Context, id int64) (*types.Book, error) {
	return p.getOne(ctx, p.selectForUpdate(id))
}

func (p *pgxRepo) GetByIsbn(ctx context.Context, isbn string) (*types.Book, error) {
	return p.getOne(ctx, p.selectJoined().Where(goqu.C("isbn").Table(table).Eq(isbn)))
}

func (p *pgxRepo) GetAll(ctx context.Context) ([]*types.Book, error) {
	return p.getMany(ctx, p.selectJoined())
}

func (p *pgxRepo) GetByAuthorId(ctx context.Context, authorId int64) ([]*types.Book, error) {
	return p.getMany(ctx, p.selectJoined().Where(goqu.C("author_id").Table(table).Eq(authorId)))
}

func (p *pgxRepo) getOne(ctx context.Context, qb *goqu.SelectDataset) (*types.Book, error) {
	sql, params, err := qb.ToSQL()
	if err != nil {
		return nil, err
	}

	var row pgxBook

	err = pgxscan.Get(ctx, storage.Conn(ctx, p.pg), &row, sql, params...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = storage.ErrNotFound
		}
		return nil, err
	}

	return row.intoCommon(), nil
}

func (p *pgxRepo) getMany(ctx context.Context, qb *goqu.SelectDataset) ([]*types.Book, error) {
	sql, params, err := qb.
		Order(goqu.C("id").Table(table).Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxBook

	err = pgxscan.Select(ctx, storage.Conn(ctx, p.pg), &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.Book, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon())
	}

	return ret, nil
}

func (p *pgxRepo) CountByAuthorId(ctx context.Context, authorId int64) (int64, error) {
	sql, params, err := p.g.From(table).
		Select(goqu.COUNT("*")).
		Where(goqu.C("author_id").Eq(authorId)).
		ToSQL()
	if err != nil {
		return 0, err
	}

	var n int64
	err = storage.Conn(ctx, p.pg).QueryRow(ctx, sql, params...).Scan(&n)
	return n, err
}

func (p *pgxRepo) Insert(ctx context.Context, book *types.Book) (*types.Book, error) {
	sql, params, err := p.g.Insert(table).
		Rows(goqu.Record{
			"title":     book.Title,
			"isbn":      book.Isbn,
			"author_id": book.AuthorId,
		}).
		Returning(bookColumns...).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row pgxBook

	err = pgxscan.Get(ctx, storage.Conn(ctx, p.pg), &row, sql, params...)
	if err != nil {
		return nil, sqlerr.Convert(err)
	}

	p.l.DebugContext(ctx, "Inserted book "+strconv.FormatInt(row.Id, 10)+" ("+row.Isbn+")")

	return row.intoCommon(), nil
}

func (p *pgxRepo) Update(ctx context.Context, book *types.Book) (int64, error) {
	sql, params, err := p.g.Update(table).
		Set(goqu.Record{
			"title":     book.Title,
			"isbn":      book.Isbn,
			"author_id": book.AuthorId,
		}).
		Where(goqu.C("id").Eq(book.Id)).
		ToSQL()
	if err != nil {
		return 0, err
	}

	tag, err := storage.Conn(ctx, p.pg).Exec(ctx, sql, params...)
	if err != nil {
		return 0, sqlerr.Convert(err)
	}

	return tag.RowsAffected(), nil
}

func (p *pgxRepo) DeleteById(ctx context.Context, id int64) (int64, error) {
	sql, params, err := p.g.Delete(table).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return 0, err
	}

	tag, err := storage.Conn(ctx, p.pg).Exec(ctx, sql, params...)
	if err != nil {
		return 0, sqlerr.Convert(err)
	}

	return tag.RowsAffected(), nil
}
