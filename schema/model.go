package schema

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tablekit/tablekit"
	"github.com/tablekit/tablekit/schema/field"
)

// Model is a named, ordered collection of column descriptors describing
// one database table. Models are defined once at program start and are
// immutable thereafter; all introspection and SQL synthesis methods are
// pure functions of the declared metadata.
type Model struct {
	name       string
	table      string
	fields     []*field.Descriptor
	byName     map[string]int
	backlogged bool
	err        error
}

// New builds a model from the given type name and column declarations.
// The table name is derived from the type name (UserProfile ->
// user_profile). Definition errors (no columns, duplicate column names,
// invalid field combinations) are carried on the model and returned by
// Err; using a broken model is a programming error.
func New(name string, fields ...*field.Builder) *Model {
	m := &Model{
		name:   name,
		table:  TableName(name),
		byName: make(map[string]int, len(fields)),
	}
	if len(fields) == 0 {
		m.err = tablekit.NewDefinitionError(name, fmt.Errorf("model has no columns"))
		return m
	}
	for _, b := range fields {
		fd := b.Descriptor()
		if fd.Err != nil && m.err == nil {
			m.err = tablekit.NewDefinitionError(fd.Name, fd.Err)
		}
		if _, ok := m.byName[fd.Name]; ok {
			if m.err == nil {
				m.err = tablekit.NewDefinitionError(name, fmt.Errorf("duplicate column %q", fd.Name))
			}
			continue
		}
		m.byName[fd.Name] = len(m.fields)
		m.fields = append(m.fields, fd)
	}
	return m
}

// Backlog marks the table as backlogged (tracked but not released) and
// returns the model for chaining during definition.
func (m *Model) Backlog() *Model {
	m.backlogged = true
	return m
}

// IsBacklogged reports whether the table is marked as backlogged.
func (m *Model) IsBacklogged() bool {
	return m.backlogged
}

// Err returns the first definition error, if any.
func (m *Model) Err() error {
	return m.err
}

// Name returns the declared type name.
func (m *Model) Name() string {
	return m.name
}

// TableName returns the snake_case table name.
func (m *Model) TableName() string {
	return m.table
}

// Columns returns the column names in declaration order.
func (m *Model) Columns() []string {
	cols := make([]string, len(m.fields))
	for i, fd := range m.fields {
		cols[i] = fd.Name
	}
	return cols
}

// Fields returns the column descriptors in declaration order.
func (m *Model) Fields() []*field.Descriptor {
	return m.fields
}

// Field returns the descriptor of the named column.
func (m *Model) Field(name string) (*field.Descriptor, bool) {
	i, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return m.fields[i], true
}

// PrimaryKeys returns the primary-key column names in declaration order.
func (m *Model) PrimaryKeys() []string {
	var pks []string
	for _, fd := range m.fields {
		if fd.PrimaryKey {
			pks = append(pks, fd.Name)
		}
	}
	return pks
}

// ForeignKey describes one foreign-key constraint of the table.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  field.ReferenceOption
}

// ForeignKeys returns the foreign-key constraints in declaration order.
func (m *Model) ForeignKeys() []ForeignKey {
	var fks []ForeignKey
	for _, fd := range m.fields {
		if fd.ForeignKeyTable == "" {
			continue
		}
		fks = append(fks, ForeignKey{
			Column:    fd.Name,
			RefTable:  fd.ForeignKeyTable,
			RefColumn: fd.ForeignKeyColumn,
			OnDelete:  fd.OnDelete,
		})
	}
	return fks
}

// Index describes one secondary index of the table.
type Index struct {
	Name   string
	Table  string
	Column string
	Type   string
	Ops    string
}

// Indexes returns the declared indexes in declaration order. The index
// name defaults to idx_<table>_<column> and the method to btree.
func (m *Model) Indexes() []Index {
	var indexes []Index
	for _, fd := range m.fields {
		if !fd.Index {
			continue
		}
		indexes = append(indexes, Index{
			Name:   m.indexName(fd),
			Table:  m.table,
			Column: fd.Name,
			Type:   m.indexType(fd),
			Ops:    fd.IndexOps,
		})
	}
	return indexes
}

func (m *Model) indexName(fd *field.Descriptor) string {
	if fd.IndexName != "" {
		return fd.IndexName
	}
	return fmt.Sprintf("idx_%s_%s", m.table, fd.Name)
}

func (m *Model) indexType(fd *field.Descriptor) string {
	if fd.IndexType != "" {
		return fd.IndexType
	}
	return field.DefaultIndexType
}

// ColumnInfo is the per-column summary returned by ColumnBreakdown.
type ColumnInfo struct {
	Name          string
	Type          string
	Nullable      bool
	Default       any
	RefTable      string
	RefColumn     string
	OnDelete      field.ReferenceOption
	TimezoneAware bool
	PrimaryKey    bool
	Indexed       bool
	IndexName     string
	IndexType     string
}

// ColumnBreakdown projects the full column metadata into one summary per
// column, in declaration order. Used by documentation and tooling.
func (m *Model) ColumnBreakdown() []ColumnInfo {
	infos := make([]ColumnInfo, len(m.fields))
	for i, fd := range m.fields {
		infos[i] = ColumnInfo{
			Name:          fd.Name,
			Type:          fd.Info.DBType(fd.TimezoneAware),
			Nullable:      fd.Nullable,
			Default:       fd.Default,
			RefTable:      fd.ForeignKeyTable,
			RefColumn:     fd.ForeignKeyColumn,
			OnDelete:      fd.OnDelete,
			TimezoneAware: fd.TimezoneAware,
			PrimaryKey:    fd.PrimaryKey,
			Indexed:       fd.Index,
			IndexName:     fd.IndexName,
			IndexType:     fd.IndexType,
		}
	}
	return infos
}

// Dependencies returns the tables this model references through foreign
// keys, excluding itself. Callers use it to order DDL application across
// tables. Each distinct target appears once, in first-reference order.
func (m *Model) Dependencies() []string {
	var deps []string
	seen := make(map[string]struct{})
	for _, fd := range m.fields {
		t := fd.ForeignKeyTable
		if t == "" || t == m.table {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		deps = append(deps, t)
	}
	return deps
}

// TableName converts a PascalCase type name to its snake_case table name.
// Every interior uppercase letter gets its own underscore, including
// consecutive capitals: UserProfile -> user_profile, APIKey -> a_p_i_key.
// Downstream table names depend on this literal behavior; it is
// deliberately not acronym-aware.
func TableName(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
