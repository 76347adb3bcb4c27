package schema

import (
	"fmt"
	"strings"
)

// sqlFunctions are the default expressions emitted bare in DEFAULT
// clauses. Any other string default is single-quoted.
var sqlFunctions = map[string]struct{}{
	"CURRENT_TIMESTAMP": {},
	"NOW()":             {},
	"CURRENT_DATE":      {},
	"CURRENT_TIME":      {},
}

// CreateDDL generates the CREATE TABLE statement for the model, followed
// by one CREATE INDEX statement per indexed column, each on its own line.
// IF NOT EXISTS is omitted when recreate is true. The exact statement
// shapes are compatibility-sensitive; downstream tooling parses them.
func (m *Model) CreateDDL(recreate bool) string {
	var (
		columns     []string
		primaryKeys []string
		foreignKeys []string
	)
	for _, fd := range m.fields {
		var constraints []string
		if fd.PrimaryKey {
			primaryKeys = append(primaryKeys, fd.Name)
			constraints = append(constraints, "NOT NULL")
		}
		if fd.Unique {
			constraints = append(constraints, "UNIQUE")
		}
		if fd.Default != nil {
			constraints = append(constraints, defaultClause(fd.Default))
		}
		if fd.Nullable {
			constraints = append(constraints, "NULL")
		} else if !fd.PrimaryKey {
			constraints = append(constraints, "NOT NULL")
		}
		if fd.ForeignKeyTable != "" {
			fk := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)", fd.Name, fd.ForeignKeyTable, fd.ForeignKeyColumn)
			if fd.OnDelete != "" {
				fk += fmt.Sprintf(" ON DELETE %s", fd.OnDelete)
			}
			foreignKeys = append(foreignKeys, fk)
		}
		columns = append(columns, fmt.Sprintf("%s %s %s", fd.Name, fd.Info.DBType(fd.TimezoneAware), strings.Join(constraints, " ")))
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if !recreate {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(m.table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ","))
	if len(primaryKeys) > 0 {
		fmt.Fprintf(&b, ", PRIMARY KEY (%s)", strings.Join(primaryKeys, ", "))
	}
	if len(foreignKeys) > 0 {
		b.WriteString(", ")
		b.WriteString(strings.Join(foreignKeys, ", "))
	}
	b.WriteString(");")

	for _, indexDDL := range m.IndexDDL(true) {
		b.WriteByte('\n')
		b.WriteString(indexDDL)
	}
	return b.String()
}

// IndexDDL generates one CREATE INDEX statement per indexed column.
func (m *Model) IndexDDL(includeIfNotExists bool) []string {
	var statements []string
	for _, fd := range m.fields {
		if !fd.Index {
			continue
		}
		ifNotExists := ""
		if includeIfNotExists {
			ifNotExists = "IF NOT EXISTS "
		}
		column := fd.Name
		if fd.IndexOps != "" {
			column += " " + fd.IndexOps
		}
		statements = append(statements, fmt.Sprintf(
			"CREATE INDEX %s%s ON %s USING %s (%s);",
			ifNotExists, m.indexName(fd), m.table, m.indexType(fd), column,
		))
	}
	return statements
}

// defaultClause renders a DEFAULT constraint. Recognized SQL function
// names pass through bare, other strings are single-quoted, and all other
// values are emitted verbatim.
func defaultClause(value any) string {
	if s, ok := value.(string); ok {
		if _, fn := sqlFunctions[strings.ToUpper(s)]; fn {
			return fmt.Sprintf("DEFAULT %s", s)
		}
		return fmt.Sprintf("DEFAULT '%s'", s)
	}
	return fmt.Sprintf("DEFAULT %v", value)
}
