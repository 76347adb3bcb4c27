package sql

// Result holds the fetched rows of one statement. The three shapes of the
// execution primitive are exposed as accessors: Raw ordered row tuples,
// column-name-keyed mappings, and a tabular Frame with column headers.
type Result struct {
	columns []string
	rows    [][]any
}

// Columns returns the result column names in select order.
func (r *Result) Columns() []string {
	return r.columns
}

// Len returns the number of fetched rows.
func (r *Result) Len() int {
	return len(r.rows)
}

// Raw returns the rows as ordered value tuples. This is the default shape.
func (r *Result) Raw() [][]any {
	return r.rows
}

// Maps returns each row as a column-name-to-value mapping.
func (r *Result) Maps() []map[string]any {
	maps := make([]map[string]any, len(r.rows))
	for i, row := range r.rows {
		m := make(map[string]any, len(r.columns))
		for j, col := range r.columns {
			m[col] = row[j]
		}
		maps[i] = m
	}
	return maps
}

// Frame returns the rows and column headers as a table-like structure.
func (r *Result) Frame() Frame {
	return Frame{Columns: r.columns, Rows: r.rows}
}

// Frame is a tabular result: ordered column headers plus row values.
type Frame struct {
	Columns []string
	Rows    [][]any
}
