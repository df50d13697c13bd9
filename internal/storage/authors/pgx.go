package authors

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

const table = "authors"

func NewPGXRepository(pg storage.Querier, l *slog.Logger) Repository {
	return &pgxRepo{pg: pg, g: goqu.Dialect("postgres"), l: l}
}

type pgxRepo struct {
	pg storage.Querier
	g  goqu.DialectWrapper
	l  *slog.Logger
}

type pgxAuthor struct {
	Id   int64  `db:"id"`
	Name string `db:"name"`
}

func (a *pgxAuthor) intoCommon() *types.Author {
	return &types.Author{
		Id:   a.Id,
		Name: a.Name,
	}
}

func (p *pgxRepo) selectAuthors() *goqu.SelectDataset {
	return p.g.From(table).Select("id", "name")
}

func (p *pgxRepo) selectById(id int64, lock bool) *goqu.SelectDataset {
	qb := p.selectAuthors().Where(goqu.C("id").Eq(id))
	if lock {
		qb = qb.ForUpdate(exp.Wait)
	}

	return qb
}

func (p *pgxRepo) GetById(ctx context.Context, id int64) (*types.Author, error) {
	return p.getOne(ctx, p.selectById(id, false))
}

func (p *pgxRepo) GetByIdForUpdate(ctx context.Context, id int64) (*types.Author, error) {
	return p.getOne(ctx, p.selectById(id, true))
}

func (p *pgxRepo) getOne(ctx context.Context, qb *goqu.SelectDataset) (*types.Author, error) {
	sql, params, err := qb.ToSQL()
	if err != nil {
		return nil, err
	}

	var row pgxAuthor

	err = pgxscan.Get(ctx, storage.Conn(ctx, p.pg), &row, sql, params...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = storage.ErrNotFound
		}
		return nil, err
	}

	return row.intoCommon(), nil
}

func (p *pgxRepo) GetAll(ctx context.Context) ([]*types.Author, error) {
	sql, params, err := p.selectAuthors().
		Order(goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxAuthor

	err = pgxscan.Select(ctx, storage.Conn(ctx, p.pg), &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.Author, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon())
	}

	return ret, nil
}

func (p *pgxRepo) Insert(ctx context.Context, name string) (*types.Author, error) {
	sql, params, err := p.g.Insert(table).
		Rows(goqu.Record{"name": name}).
		Returning("id", "name").
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row pgxAuthor

	err = pgxscan.Get(ctx, storage.Conn(ctx, p.pg), &row, sql, params...)
	if err != nil {
		return nil, sqlerr.Convert(err)
	}

	p.l.DebugContext(ctx, "Inserted author "+strconv.FormatInt(row.Id, 10))

	return row.intoCommon(), nil
}

func (p *pgxRepo) Update(ctx context.Context, id int64, name string) (int64, error) {
	sql, params, err := p.g.Update(table).
		Set(goqu.Record{"name": name}).
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
