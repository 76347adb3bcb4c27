// Package dialect names the database backend and defines the execution
// surface shared by the connection wrapper and its instrumented variants.
//
// tablekit targets a single backend: the generated SQL uses PostgreSQL
// types (JSONB, TIMESTAMPTZ, arrays), PostgreSQL upserts (ON CONFLICT)
// and PostgreSQL index DDL (USING btree). The dialect constant exists so
// callers and tests name the driver in one place.
package dialect

import (
	"context"
	"database/sql"
)

// Postgres is the database/sql driver name used for all connections.
const Postgres = "postgres"

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
