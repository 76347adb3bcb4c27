package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/tablekit/tablekit"
	dsql "github.com/tablekit/tablekit/dialect/sql"
)

// Statement is one synthesized SQL statement with its bound arguments in
// placeholder order.
type Statement struct {
	Query string
	Args  []any
}

// execOpts translates the operation flags into execution options.
func execOpts(o *queryOptions) []dsql.ExecOption {
	opts := []dsql.ExecOption{dsql.NoFetch()}
	if o.selfCommit {
		opts = append(opts, dsql.WithCommit())
	}
	return opts
}

// Insert inserts the record's explicitly-set columns. The synthesized
// statement is returned alongside any execution error; with DryRun it is
// built and returned without touching a connection.
//
// With UpsertOnConflict the statement gains an ON CONFLICT clause on the
// primary keys updating every non-primary-key set column, optionally
// filtered by UpdateColumns. If no column qualifies the clause is omitted
// entirely even though an upsert was requested.
func (r *Record) Insert(ctx context.Context, opts ...QueryOption) (Statement, error) {
	m := r.model
	if m.err != nil {
		return Statement{}, m.err
	}
	o := applyOptions(opts)

	columns := r.SetColumns()
	args := make([]any, 0, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		args = append(args, formatValue(r.values[col]))
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		m.table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)
	if o.upsert {
		if clause := upsertClause(m, columns, o.updateCols); clause != "" {
			query += clause
		}
	}
	query += ";"

	stmt := Statement{Query: query, Args: args}
	if o.dryRun {
		return stmt, nil
	}
	conn, release := acquire(o, true)
	defer release()
	if _, err := conn.ExecuteQuery(ctx, stmt.Query, stmt.Args, execOpts(o)...); err != nil {
		return stmt, tablekit.NewMutationError(m.table, "insert", err)
	}
	return stmt, nil
}

// upsertClause builds the ON CONFLICT ... DO UPDATE clause, or returns ""
// when no inserted column qualifies for updating.
func upsertClause(m *Model, inserted, allowList []string) string {
	primaryKeys := m.PrimaryKeys()
	isPK := make(map[string]struct{}, len(primaryKeys))
	for _, pk := range primaryKeys {
		isPK[pk] = struct{}{}
	}
	var allowed map[string]struct{}
	if allowList != nil {
		allowed = make(map[string]struct{}, len(allowList))
		for _, col := range allowList {
			allowed[col] = struct{}{}
		}
	}
	var updates []string
	for _, col := range inserted {
		if _, pk := isPK[col]; pk {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[col]; !ok {
				continue
			}
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	if len(updates) == 0 {
		return ""
	}
	return fmt.Sprintf(
		" ON CONFLICT (%s) DO UPDATE SET %s",
		strings.Join(primaryKeys, ", "), strings.Join(updates, ", "),
	)
}

// Update updates the row(s) selected by the condition, assigning every
// explicitly-set non-primary-key column. Without an explicit Where the
// condition defaults to the primary-key columns equaling this record's
// current values.
//
// Increment renders col = CASE WHEN col IS NULL THEN $n ELSE col + $n END
// with the value bound twice. Decrement substitutes a literal 0 in the
// null branch instead of binding the value; the asymmetry with Increment
// is long-standing observed behavior and is kept as is.
func (r *Record) Update(ctx context.Context, opts ...QueryOption) error {
	m := r.model
	if m.err != nil {
		return m.err
	}
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return err
	}

	primaryKeys := m.PrimaryKeys()
	isPK := make(map[string]struct{}, len(primaryKeys))
	for _, pk := range primaryKeys {
		isPK[pk] = struct{}{}
	}

	var (
		sets []string
		args []any
	)
	for _, col := range r.SetColumns() {
		if _, pk := isPK[col]; pk {
			continue
		}
		args = append(args, formatValue(r.values[col]))
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	for i := 0; i < len(o.incrCols) && i < len(o.incrVals); i++ {
		col, value := o.incrCols[i], o.incrVals[i]
		args = append(args, value)
		whenNull := len(args)
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(
			"%s = CASE WHEN %s IS NULL THEN $%d ELSE %s + $%d END",
			col, col, whenNull, col, len(args),
		))
	}
	for i := 0; i < len(o.decrCols) && i < len(o.decrVals); i++ {
		col, value := o.decrCols[i], o.decrVals[i]
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(
			"%s = CASE WHEN %s IS NULL THEN 0 ELSE %s - $%d END",
			col, col, col, len(args),
		))
	}

	condCols, condVals := o.andCols, o.andVals
	if condCols == nil || condVals == nil {
		condCols = primaryKeys
		condVals = make([]any, len(primaryKeys))
		for i, pk := range primaryKeys {
			condVals[i] = r.values[pk]
		}
	}
	conditions := make([]string, len(condCols))
	for i, col := range condCols {
		args = append(args, condVals[i])
		conditions[i] = fmt.Sprintf("%s = $%d", col, len(args))
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s;",
		m.table, strings.Join(sets, ", "), strings.Join(conditions, " AND "),
	)
	if o.dryRun {
		return nil
	}
	conn, release := acquire(o, true)
	defer release()
	if _, err := conn.ExecuteQuery(ctx, query, args, execOpts(o)...); err != nil {
		return tablekit.NewMutationError(m.table, "update", err)
	}
	return nil
}

// Delete deletes the rows matching the Where condition. Calling Delete
// without a condition is a usage error, raised before any statement is
// built or any connection touched.
func (m *Model) Delete(ctx context.Context, opts ...QueryOption) error {
	if m.err != nil {
		return m.err
	}
	o := applyOptions(opts)
	if o.andCols == nil || o.andVals == nil {
		return fmt.Errorf("delete from %s: %w", m.table, tablekit.ErrMissingCondition)
	}
	if err := o.validate(); err != nil {
		return err
	}

	var args []any
	conditions := make([]string, len(o.andCols))
	for i, col := range o.andCols {
		args = append(args, o.andVals[i])
		conditions[i] = fmt.Sprintf("%s = $%d", col, len(args))
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s;", m.table, strings.Join(conditions, " AND "))

	conn, release := acquire(o, true)
	defer release()
	if _, err := conn.ExecuteQuery(ctx, query, args, execOpts(o)...); err != nil {
		return tablekit.NewMutationError(m.table, "delete", err)
	}
	return nil
}
