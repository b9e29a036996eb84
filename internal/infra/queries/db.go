package queries

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries builds statements with squirrel and runs them on whatever DBTX the
// caller passes, so the same instance serves pooled and transactional work.
type Queries struct{}

func New() *Queries {
	return &Queries{}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
