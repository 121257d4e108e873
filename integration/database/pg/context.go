package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txContextKey struct{}

// WithTx returns a new context carrying tx. A nil tx returns ctx unchanged.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext extracts a transaction stored with WithTx.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txContextKey{}).(pgx.Tx)
	return tx, ok
}

// InTx runs fn inside a transaction carried by its context. The transaction
// is committed when fn returns nil and rolled back otherwise. Nested calls
// reuse the outer transaction.
func InTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(WithTx(ctx, tx)); err != nil {
		return errors.Join(err, ignoreClosed(tx.Rollback(ctx)))
	}
	return tx.Commit(ctx)
}

// Querier is the query surface shared by pools and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxAware returns a Querier that uses the transaction in the call's context
// when there is one, and pool otherwise.
func TxAware(pool *pgxpool.Pool) Querier {
	return txAware{pool: pool}
}

type txAware struct {
	pool *pgxpool.Pool
}

func (q txAware) conn(ctx context.Context) Querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return q.pool
}

func (q txAware) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return q.conn(ctx).Exec(ctx, sql, args...)
}

func (q txAware) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return q.conn(ctx).Query(ctx, sql, args...)
}

func (q txAware) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return q.conn(ctx).QueryRow(ctx, sql, args...)
}

func ignoreClosed(err error) error {
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}
