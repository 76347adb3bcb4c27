package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/tablekit/tablekit"
	dsql "github.com/tablekit/tablekit/dialect/sql"
)

// Executor is the execution surface the synthesis engine needs. It is
// satisfied by *sql.Conn and *sql.StatsConn.
type Executor interface {
	ExecuteQuery(ctx context.Context, query string, args []any, opts ...dsql.ExecOption) (*dsql.Result, error)
	Disconnect(commit bool)
}

// queryOptions collects the per-call arguments of the model operations.
type queryOptions struct {
	conn       Executor
	columns    []string
	andCols    []string
	andVals    []any
	orCols     []string
	orVals     []any
	custom     string
	customArgs []any
	orderBy    []string
	orderDesc  bool
	groupBy    []string
	limit      *int
	offset     *int
	selfCommit bool
	upsert     bool
	updateCols []string
	incrCols   []string
	incrVals   []any
	decrCols   []string
	decrVals   []any
	dryRun     bool
}

// QueryOption configures a single model operation.
type QueryOption func(*queryOptions)

func applyOptions(opts []QueryOption) *queryOptions {
	o := &queryOptions{selfCommit: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithConn runs the operation on a borrowed connection. Borrowed
// connections are never closed by the operation; the caller retains
// ownership. Without this option the operation opens a connection from
// the environment parameters, uses it, and closes it before returning.
func WithConn(conn Executor) QueryOption {
	return func(o *queryOptions) {
		o.conn = conn
	}
}

// Columns restricts the selected columns. Defaults to *.
func Columns(columns ...string) QueryOption {
	return func(o *queryOptions) {
		o.columns = columns
	}
}

// Where adds an AND condition group: the pairs are joined as
// (col1 = $1 AND col2 = $2 ...).
func Where(columns []string, values []any) QueryOption {
	return func(o *queryOptions) {
		o.andCols = columns
		o.andVals = values
	}
}

// OrWhere adds an OR condition group: (col1 = $1 OR col2 = $2 ...).
// When both groups are present they are combined as (<and>) AND (<or>).
func OrWhere(columns []string, values []any) QueryOption {
	return func(o *queryOptions) {
		o.orCols = columns
		o.orVals = values
	}
}

// Custom supplies a verbatim condition clause with its bound arguments.
// It takes precedence: the Where and OrWhere groups are skipped entirely.
// Placeholders are positional and start at $1.
func Custom(condition string, args ...any) QueryOption {
	return func(o *queryOptions) {
		o.custom = condition
		o.customArgs = args
	}
}

// OrderBy sorts the result by the given columns, ascending by default.
func OrderBy(columns ...string) QueryOption {
	return func(o *queryOptions) {
		o.orderBy = columns
	}
}

// Desc flips the OrderBy direction to descending.
func Desc() QueryOption {
	return func(o *queryOptions) {
		o.orderDesc = true
	}
}

// GroupBy adds a GROUP BY clause. SelectMany only.
func GroupBy(columns ...string) QueryOption {
	return func(o *queryOptions) {
		o.groupBy = columns
	}
}

// Limit caps the number of returned rows. SelectMany only.
func Limit(n int) QueryOption {
	return func(o *queryOptions) {
		o.limit = &n
	}
}

// Offset skips the first n rows. SelectMany only.
func Offset(n int) QueryOption {
	return func(o *queryOptions) {
		o.offset = &n
	}
}

// SelfCommit controls whether mutations commit after executing. Defaults
// to true.
func SelfCommit(commit bool) QueryOption {
	return func(o *queryOptions) {
		o.selfCommit = commit
	}
}

// UpsertOnConflict turns an insert into an upsert: ON CONFLICT on the
// primary keys, updating every non-primary-key set column (optionally
// filtered by UpdateColumns).
func UpsertOnConflict() QueryOption {
	return func(o *queryOptions) {
		o.upsert = true
	}
}

// UpdateColumns restricts which columns an upsert updates on conflict.
func UpdateColumns(columns ...string) QueryOption {
	return func(o *queryOptions) {
		o.updateCols = columns
	}
}

// Increment adds col = col + value assignments to an update. A NULL
// column is set to the value itself.
func Increment(columns []string, values []any) QueryOption {
	return func(o *queryOptions) {
		o.incrCols = columns
		o.incrVals = values
	}
}

// Decrement adds col = col - value assignments to an update. A NULL
// column is set to zero.
func Decrement(columns []string, values []any) QueryOption {
	return func(o *queryOptions) {
		o.decrCols = columns
		o.decrVals = values
	}
}

// DryRun builds and returns the statement without executing it.
func DryRun() QueryOption {
	return func(o *queryOptions) {
		o.dryRun = true
	}
}

// validate rejects mismatched condition pairs before any SQL is built.
func (o *queryOptions) validate() error {
	if o.andCols != nil && o.andVals != nil && len(o.andCols) != len(o.andVals) {
		return fmt.Errorf("tablekit: AND condition columns and values differ in length (%d != %d)", len(o.andCols), len(o.andVals))
	}
	if o.orCols != nil && o.orVals != nil && len(o.orCols) != len(o.orVals) {
		return fmt.Errorf("tablekit: OR condition columns and values differ in length (%d != %d)", len(o.orCols), len(o.orVals))
	}
	return nil
}

// acquire returns the connection an operation runs on and its release
// function. A borrowed connection is returned as-is with a no-op release.
// Otherwise the operation owns the connection: one is opened from the
// environment parameters and the release closes it on every exit path,
// committing first when commitOnRelease is set.
func acquire(o *queryOptions, commitOnRelease bool) (Executor, func()) {
	if o.conn != nil {
		return o.conn, func() {}
	}
	conn := dsql.Open(dsql.Params{})
	return conn, func() {
		conn.Disconnect(commitOnRelease && o.selfCommit)
	}
}

// conditionClause builds the combined WHERE clause, appending bound
// values to args in placeholder order. An empty string means no
// condition.
func conditionClause(o *queryOptions, args *[]any) string {
	var groups []string
	if o.custom != "" {
		groups = append(groups, o.custom)
		*args = append(*args, o.customArgs...)
	} else {
		if o.andCols != nil && o.andVals != nil {
			groups = append(groups, conditionGroup(o.andCols, o.andVals, " AND ", args))
		}
		if o.orCols != nil && o.orVals != nil {
			groups = append(groups, conditionGroup(o.orCols, o.orVals, " OR ", args))
		}
	}
	return strings.Join(groups, " AND ")
}

func conditionGroup(columns []string, values []any, sep string, args *[]any) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		*args = append(*args, values[i])
		parts[i] = fmt.Sprintf("%s = $%d", col, len(*args))
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// buildSelect synthesizes the SELECT statement and its bound arguments.
func (m *Model) buildSelect(o *queryOptions, limitOne bool) (string, []any) {
	columns := o.columns
	if columns == nil {
		columns = []string{"*"}
	}
	var args []any
	condition := conditionClause(o, &args)

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(columns, ", "), m.table)
	if condition != "" {
		b.WriteString(" WHERE ")
		b.WriteString(condition)
	}
	if !limitOne && o.groupBy != nil {
		fmt.Fprintf(&b, " GROUP BY %s", strings.Join(o.groupBy, ", "))
	}
	if o.orderBy != nil {
		direction := "ASC"
		if o.orderDesc {
			direction = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", strings.Join(o.orderBy, ", "), direction)
	}
	if limitOne {
		b.WriteString(" LIMIT 1")
	} else {
		if o.limit != nil {
			fmt.Fprintf(&b, " LIMIT %d", *o.limit)
		}
		if o.offset != nil {
			fmt.Fprintf(&b, " OFFSET %d", *o.offset)
		}
	}
	b.WriteString(";")
	return b.String(), args
}

// SelectOne selects at most one row and rehydrates it into a record.
// Zero matching rows return a NotFoundError satisfying
// errors.Is(err, tablekit.ErrNotFound); a placeholder record is never
// returned.
func (m *Model) SelectOne(ctx context.Context, opts ...QueryOption) (*Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	conn, release := acquire(o, false)
	defer release()

	query, args := m.buildSelect(o, true)
	res, err := conn.ExecuteQuery(ctx, query, args)
	if err != nil {
		return nil, tablekit.NewQueryError(m.table, "select_one", err)
	}
	if res.Len() == 0 {
		return nil, tablekit.NewNotFoundError(m.table)
	}
	return m.hydrate(res.Columns(), res.Raw()[0]), nil
}

// SelectMany selects all matching rows and rehydrates them into records.
// Zero matching rows return an empty, non-nil slice.
func (m *Model) SelectMany(ctx context.Context, opts ...QueryOption) ([]*Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	conn, release := acquire(o, false)
	defer release()

	query, args := m.buildSelect(o, false)
	res, err := conn.ExecuteQuery(ctx, query, args)
	if err != nil {
		return nil, tablekit.NewQueryError(m.table, "select_many", err)
	}
	records := make([]*Record, 0, res.Len())
	for _, row := range res.Raw() {
		records = append(records, m.hydrate(res.Columns(), row))
	}
	return records, nil
}
