// Package dbx provides the minimal database/sql surface shared by sqlite
// backed components. DBTX is implemented by both *sql.DB and *sql.Tx, so a
// cache can run against a plain handle or inside a transaction unchanged.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the local cache.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
