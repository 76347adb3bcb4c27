package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/tablekit/tablekit"
	"github.com/tablekit/tablekit/dialect"

	// Registers the postgres driver used by Connect.
	_ "github.com/lib/pq"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores).
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// Conn owns a single live connection to the database. It is not safe for
// concurrent use; the design assumes one Conn per logical unit of work.
//
// Statements run inside an implicit transaction that is begun lazily on the
// first statement and ended only by Commit, Rollback or Disconnect. No
// rollback or retry is attempted automatically on statement failure; the
// caller owns the transaction boundary.
type Conn struct {
	params     Params
	db         *sql.DB
	tx         *sql.Tx
	logQueries bool
}

// ConnOption configures a Conn.
type ConnOption func(*Conn)

// WithQueryLogging logs every executed statement at Info level. Off by
// default; failures are always logged.
func WithQueryLogging() ConnOption {
	return func(c *Conn) {
		c.logQueries = true
	}
}

// Open returns a disconnected Conn. Empty parameters are resolved from the
// DATABASE_* environment variables immediately; no I/O happens until
// Connect or the first ExecuteQuery.
func Open(params Params, opts ...ConnOption) *Conn {
	c := &Conn{params: ResolveParams(params)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenDB wraps an existing database handle. Used by callers that manage
// their own *sql.DB, and by tests.
func OpenDB(db *sql.DB, opts ...ConnOption) *Conn {
	c := &Conn{db: db}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connected reports whether a connection is currently open.
func (c *Conn) Connected() bool {
	return c.db != nil
}

// Connect opens the connection. A non-empty schema is created first if it
// does not exist, and the new connection's default search path is set to
// it. Connecting an already-connected Conn closes the old handle first.
func (c *Conn) Connect(ctx context.Context, schema string) error {
	if schema != "" {
		if !isValidIdentifier(schema) {
			return tablekit.NewConnectionError("connect", fmt.Errorf("invalid schema name: %q", schema))
		}
		if err := c.EnsureSchema(ctx, schema); err != nil {
			return err
		}
	}
	if c.db != nil {
		c.Disconnect(false)
	}
	db, err := sql.Open(dialect.Postgres, c.params.DSN(schema))
	if err == nil {
		err = db.PingContext(ctx)
	}
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		slog.Error("db: error creating connection", "host", c.params.Host, "database", c.params.Database, "err", err)
		return tablekit.NewConnectionError("connect", err)
	}
	c.db = db
	return nil
}

// Disconnect closes the connection, committing first when commit is true.
// It never returns an error: it is commonly invoked from cleanup paths
// where the original error should propagate instead, so failures while
// closing are swallowed and logged at Debug level.
func (c *Conn) Disconnect(commit bool) {
	if c.db == nil {
		return
	}
	if commit {
		if err := c.Commit(); err != nil {
			slog.Debug("db: commit on disconnect failed", "err", err)
		}
	}
	if c.tx != nil {
		if err := c.tx.Rollback(); err != nil {
			slog.Debug("db: rollback on disconnect failed", "err", err)
		}
		c.tx = nil
	}
	if err := c.db.Close(); err != nil {
		slog.Debug("db: close failed", "err", err)
	}
	c.db = nil
}

// Commit commits the in-progress transaction. Calling Commit while
// disconnected is a usage error. Committing with no statement executed
// since the last commit is a no-op.
func (c *Conn) Commit() error {
	if c.db == nil {
		return fmt.Errorf("commit: %w", tablekit.ErrNoConnection)
	}
	if c.tx == nil {
		return nil
	}
	err := c.tx.Commit()
	c.tx = nil
	if err != nil {
		slog.Error("db: error committing", "err", err)
		return tablekit.NewConnectionError("commit", err)
	}
	return nil
}

// Rollback rolls back the in-progress transaction, if any.
func (c *Conn) Rollback() error {
	if c.db == nil {
		return fmt.Errorf("rollback: %w", tablekit.ErrNoConnection)
	}
	if c.tx == nil {
		return nil
	}
	err := c.tx.Rollback()
	c.tx = nil
	if err != nil {
		return tablekit.NewConnectionError("rollback", err)
	}
	return nil
}

// EnsureSchema creates the schema if it does not exist. A transient
// connection is opened (and closed) when the Conn is disconnected. On
// failure the in-progress transaction is rolled back best-effort before
// the error is returned.
func (c *Conn) EnsureSchema(ctx context.Context, schema string) error {
	if !isValidIdentifier(schema) {
		return tablekit.NewConnectionError("create schema", fmt.Errorf("invalid schema name: %q", schema))
	}
	db := c.db
	if db == nil {
		transient, err := sql.Open(dialect.Postgres, c.params.DSN(""))
		if err != nil {
			return tablekit.NewConnectionError("create schema", err)
		}
		defer func() { _ = transient.Close() }()
		db = transient
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("db: failed to create schema", "schema", schema, "err", err)
		return tablekit.NewConnectionError("create schema", err)
	}
	if _, err := tx.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			slog.Debug("db: rollback after schema failure", "schema", schema, "err", rerr)
		}
		slog.Error("db: failed to create schema", "schema", schema, "err", err)
		return tablekit.NewConnectionError("create schema", err)
	}
	if err := tx.Commit(); err != nil {
		slog.Error("db: failed to create schema", "schema", schema, "err", err)
		return tablekit.NewConnectionError("create schema", err)
	}
	return nil
}

// querier returns the implicit transaction, beginning one if needed.
func (c *Conn) querier(ctx context.Context) (dialect.ExecQuerier, error) {
	if c.tx == nil {
		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		c.tx = tx
	}
	return c.tx, nil
}

// execOptions holds the per-call flags of ExecuteQuery.
type execOptions struct {
	noFetch bool
	commit  bool
	schema  string
}

// ExecOption configures a single ExecuteQuery call.
type ExecOption func(*execOptions)

// NoFetch skips result fetching. Use for mutations; ExecuteQuery returns a
// nil Result. Takes precedence over all result shaping.
func NoFetch() ExecOption {
	return func(o *execOptions) {
		o.noFetch = true
	}
}

// WithCommit commits the transaction after the statement executes.
func WithCommit() ExecOption {
	return func(o *execOptions) {
		o.commit = true
	}
}

// InSchema sets the default schema used when ExecuteQuery has to open the
// connection itself.
func InSchema(schema string) ExecOption {
	return func(o *execOptions) {
		o.schema = schema
	}
}

// ExecuteQuery runs one parameterized statement. It auto-connects
// (optionally into the InSchema schema) when disconnected; this is the only
// implicit connection the wrapper performs. Failures are logged with full
// context and returned as a ConnectionError, never retried; the caller must
// rollback or retry if desired.
func (c *Conn) ExecuteQuery(ctx context.Context, query string, args []any, opts ...ExecOption) (*Result, error) {
	o := &execOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if c.db == nil {
		if err := c.Connect(ctx, o.schema); err != nil {
			return nil, err
		}
	}
	ex, err := c.querier(ctx)
	if err != nil {
		slog.Error("db: error beginning transaction", "err", err)
		return nil, tablekit.NewConnectionError("begin", err)
	}
	if c.logQueries {
		slog.Info("db: executing query", "query", query, "args", args)
	}
	if o.noFetch {
		if _, err := ex.ExecContext(ctx, query, args...); err != nil {
			slog.Error("db: error executing query", "query", query, "err", err)
			return nil, tablekit.NewConnectionError("execute", err)
		}
		if o.commit {
			return nil, c.Commit()
		}
		return nil, nil
	}
	rows, err := ex.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("db: error executing query", "query", query, "err", err)
		return nil, tablekit.NewConnectionError("execute", err)
	}
	res, err := scanResult(rows)
	if err != nil {
		slog.Error("db: error reading result", "query", query, "err", err)
		return nil, tablekit.NewConnectionError("fetch", err)
	}
	if o.commit {
		if err := c.Commit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// scanResult drains rows into a Result. The rows are always closed.
func scanResult(rows *sql.Rows) (*Result, error) {
	defer func() { _ = rows.Close() }()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	res := &Result{columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		res.rows = append(res.rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
