package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx satisfied by *pgxpool.Pool, pgx.Tx and the
// pgxmock pool. Repositories run against it so the same code serves both
// pooled calls and transaction-scoped calls.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxStarter is implemented by *pgxpool.Pool and the pgxmock pool. Services
// that need a unit of work begin transactions through it.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
