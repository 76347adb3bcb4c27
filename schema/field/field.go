package field

// A Type identifies the declared semantic type of a column.
type Type uint8

// List of semantic types. The database type each one maps to is decided by
// TypeInfo.DBType.
const (
	TypeInvalid Type = iota
	TypeText
	TypeInt
	TypeFloat
	TypeBool
	TypeDate
	TypeTimeOfDay
	TypeDuration
	TypeDateTime
	TypeJSON
	TypeList
	TypeOptional
)

var typeNames = [...]string{
	TypeInvalid:   "invalid",
	TypeText:      "text",
	TypeInt:       "int",
	TypeFloat:     "float",
	TypeBool:      "bool",
	TypeDate:      "date",
	TypeTimeOfDay: "time",
	TypeDuration:  "duration",
	TypeDateTime:  "datetime",
	TypeJSON:      "json",
	TypeList:      "list",
	TypeOptional:  "optional",
}

// String returns the string representation of a type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// TypeInfo holds a semantic type, including the element type of lists and
// optional wrappers.
type TypeInfo struct {
	Type Type
	Elem *TypeInfo
}

// jsonbType is the JSON-capable binary column type.
const jsonbType = "JSONB"

// DBType maps the semantic type to its PostgreSQL type name. Lists of
// free-form mappings collapse to JSONB rather than JSONB[], optional
// wrappers map the same as their element, and unknown types fall back to
// TEXT. tzAware selects TIMESTAMPTZ over TIMESTAMP for datetime columns.
func (t TypeInfo) DBType(tzAware bool) string {
	switch t.Type {
	case TypeOptional:
		if t.Elem == nil {
			return "TEXT"
		}
		return t.Elem.DBType(tzAware)
	case TypeList:
		if t.Elem == nil || t.Elem.Type == TypeJSON {
			return jsonbType
		}
		elem := t.Elem.DBType(tzAware)
		if elem == jsonbType {
			return jsonbType
		}
		return elem + "[]"
	case TypeJSON:
		return jsonbType
	case TypeText:
		return "TEXT"
	case TypeInt:
		return "INTEGER"
	case TypeFloat:
		return "numeric"
	case TypeBool:
		return "BOOLEAN"
	case TypeDate:
		return "DATE"
	case TypeTimeOfDay:
		return "TIME"
	case TypeDuration:
		return "INTERVAL"
	case TypeDateTime:
		if tzAware {
			return "TIMESTAMPTZ"
		}
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// ReferenceOption is the ON DELETE action of a foreign-key constraint.
type ReferenceOption string

// Reference options, rendered verbatim into the constraint clause.
const (
	Cascade  ReferenceOption = "CASCADE"
	SetNull  ReferenceOption = "SET NULL"
	Restrict ReferenceOption = "RESTRICT"
	NoAction ReferenceOption = "NO ACTION"
)

// DefaultIndexType is the index method used when none is declared.
const DefaultIndexType = "btree"

// Descriptor is the explicit per-column metadata table consumed by the
// model and the SQL synthesis engine. Descriptors are produced by the
// field builders and are immutable once the owning model is constructed.
type Descriptor struct {
	Name             string          // Column name.
	Info             TypeInfo        // Declared semantic type.
	Nullable         bool            // NULL allowed; forced false for primary keys.
	PrimaryKey       bool            // Part of the table primary key.
	Unique           bool            // UNIQUE constraint.
	Index            bool            // Secondary index requested.
	IndexName        string          // Index name override; empty means idx_<table>_<column>.
	IndexType        string          // Index method; empty means btree.
	IndexOps         string          // Operator class appended to the indexed column.
	ForeignKeyTable  string          // Referenced table; presence implies a FK constraint.
	ForeignKeyColumn string          // Referenced column.
	OnDelete         ReferenceOption // ON DELETE action; empty means none.
	Default          any             // DB-side default literal or SQL function name.
	TimezoneAware    bool            // TIMESTAMPTZ instead of TIMESTAMP.
	Err              error           // Deferred builder error, surfaced at model construction.
}
