// Package storage holds what the per-entity repositories share: the
// not-found sentinel, the query interface and transaction propagation.
package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by single-row lookups that matched nothing.
var ErrNotFound = errors.New("record not found")

// Querier is implemented by both *pgxpool.Pool and pgx.Tx, so repositories
// work the same inside and outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// Conn returns the transaction carried by ctx, or db when there is none.
func Conn(ctx context.Context, db Querier) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}

	return db
}

func NewPGXTransactor(pg *pgxpool.Pool) *PGXTransactor {
	return &PGXTransactor{pg: pg}
}

// PGXTransactor runs functions inside a pgx transaction and hands the
// transaction down through the context. Nested calls join the outer
// transaction.
type PGXTransactor struct {
	pg *pgxpool.Pool
}

func (t *PGXTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, pgx.TxOptions{}, fn)
}

func (t *PGXTransactor) InReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (t *PGXTransactor) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	return pgx.BeginTxFunc(ctx, t.pg, opts, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
