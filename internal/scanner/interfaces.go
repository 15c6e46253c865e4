package scanner

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stockpulse/stockpulse-go/internal/market"
)

// DBPool abstracts the pgx connection pool so the store can be tested
// with pgxmock.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// SnapshotProvider fetches price history for one symbol.
type SnapshotProvider interface {
	FetchChart(ctx context.Context, symbol string) (*market.Snapshot, error)
}
