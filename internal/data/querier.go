package data

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool, pgx.Tx and pgxmock the repositories
// run statements through; pgxscan reads rows from it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxQuerier additionally opens the delivery transaction.
type TxQuerier interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}
