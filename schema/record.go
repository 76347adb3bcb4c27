package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Record is one logical row of a model. It tracks which columns were
// explicitly set; this set-ness mask, not the full column set, governs
// which columns participate in INSERT and UPDATE. Records own no
// connection and no identity beyond their column values.
type Record struct {
	model  *Model
	values map[string]any
	set    map[string]struct{}
	extras []string // set columns not declared on the model, in set order
}

// NewRecord returns an empty record of the model with nothing set.
func (m *Model) NewRecord() *Record {
	return &Record{
		model:  m,
		values: make(map[string]any),
		set:    make(map[string]struct{}),
	}
}

// hydrate builds a record from one returned result row. The set-ness mask
// is exactly the returned columns.
func (m *Model) hydrate(columns []string, row []any) *Record {
	r := m.NewRecord()
	for i, col := range columns {
		r.Set(col, row[i])
	}
	return r
}

// Set assigns a column value and marks the column as explicitly set.
// Columns not declared on the model are accepted and carried through to
// INSERT, after the declared columns.
func (r *Record) Set(name string, value any) *Record {
	if _, declared := r.model.byName[name]; !declared {
		if _, ok := r.set[name]; !ok {
			r.extras = append(r.extras, name)
		}
	}
	r.values[name] = value
	r.set[name] = struct{}{}
	return r
}

// Get returns the column value and whether the column was explicitly set.
func (r *Record) Get(name string) (any, bool) {
	_, ok := r.set[name]
	return r.values[name], ok
}

// IsSet reports whether the column was explicitly set.
func (r *Record) IsSet(name string) bool {
	_, ok := r.set[name]
	return ok
}

// Model returns the model this record belongs to.
func (r *Record) Model() *Model {
	return r.model
}

// SetColumns returns the explicitly-set column names: declared columns in
// declaration order, then undeclared extras in set order.
func (r *Record) SetColumns() []string {
	var cols []string
	for _, fd := range r.model.fields {
		if r.IsSet(fd.Name) {
			cols = append(cols, fd.Name)
		}
	}
	return append(cols, r.extras...)
}

// Map returns the explicitly-set columns as a name-to-value map.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.set))
	for name := range r.set {
		m[name] = r.values[name]
	}
	return m
}

// MarshalJSON encodes only the explicitly-set columns.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// NewUID returns a new random UUID string, e.g. for primary keys.
func NewUID() string {
	return uuid.NewString()
}

// formatValue converts an in-memory value to its bind-ready form for
// INSERT and UPDATE parameters. Durations are rendered as interval text,
// free-form mappings as JSON, scalar slices as PostgreSQL arrays; values
// the driver binds natively pass through unchanged.
func formatValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string, bool, time.Time:
		return v
	case time.Duration:
		return formatInterval(v)
	case map[string]any:
		return mustJSON(v)
	case []map[string]any:
		return mustJSON(v)
	case []any:
		if len(v) > 0 {
			if _, ok := v[0].(map[string]any); ok {
				return mustJSON(v)
			}
		}
		return pq.Array(v)
	case []string:
		return pq.Array(v)
	case []int:
		return pq.Array(v)
	case []int64:
		return pq.Array(v)
	case []float64:
		return pq.Array(v)
	case []bool:
		return pq.Array(v)
	default:
		return v
	}
}

// formatInterval renders a duration as "<days> days <HH>:<MM>:<SS>",
// the interval input format the backend accepts. Sub-second precision is
// dropped.
func formatInterval(d time.Duration) string {
	total := int64(d.Seconds())
	days := total / 86400
	rem := total % 86400
	return fmt.Sprintf("%d days %02d:%02d:%02d", days, rem/3600, (rem%3600)/60, rem%60)
}

// mustJSON encodes v as JSON text. The value shapes accepted by
// formatValue cannot fail to encode.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
