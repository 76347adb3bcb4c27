package field

import "fmt"

// Builder declares a single column and its metadata. All builders share
// the same fluent surface; the declared semantic type comes from the
// constructor. Terminate with Descriptor, or pass the builder directly to
// schema.New, which finalizes it.
//
//	field.Text("user_id").PrimaryKey()
//	field.Text("email").Unique().Index()
//	field.DateTime("created_at").Timezone().DBDefault("NOW()")
type Builder struct {
	desc *Descriptor
}

func newBuilder(name string, info TypeInfo) *Builder {
	return &Builder{desc: &Descriptor{
		Name:     name,
		Info:     info,
		Nullable: true,
	}}
}

// Text returns a new text column (TEXT).
func Text(name string) *Builder {
	return newBuilder(name, TypeInfo{Type: TypeText})
}

// Int returns a new integer column (INTEGER).
func Int(name string) *Builder {
	return newBuilder(name, TypeInfo{Type: TypeInt})
}

// Float returns a new floating-point column (numeric).
func Float(name string) *Builder {
	return newBuilder(name, TypeInfo{Type: TypeFloat})
}

// Bool returns a new boolean column (BOOLEAN).
func Bool(name string) *Builder {
	return newBuilder(name, TypeInfo{Type: TypeBool})
}

// Date returns a new calendar-date column (DATE).
func Date(name string) *Builder {
	return newBuilder(name, TypeInfo{Type: TypeDate})
}

// TimeOfDay returns a new wall-clock time column (TIME).
func TimeOfDay(name string) *Builder {
	return newBuilder(name, TypeInfo{Type: TypeTimeOfDay})
}

// Duration returns a new duration column (INTERVAL).
func Duration(name string) *Builder {
	return newBuilder(name, TypeInfo{Type: TypeDuration})
}

// DateTime returns a new timestamp column (TIMESTAMP, or TIMESTAMPTZ when
// Timezone is set).
func DateTime(name string) *Builder {
	return newBuilder(name, TypeInfo{Type: TypeDateTime})
}

// JSON returns a new free-form mapping column (JSONB).
func JSON(name string) *Builder {
	return newBuilder(name, TypeInfo{Type: TypeJSON})
}

// List returns a new list column of the given element type. Scalar
// elements map to PostgreSQL arrays; JSON elements collapse to JSONB.
func List(name string, elem TypeInfo) *Builder {
	return newBuilder(name, TypeInfo{Type: TypeList, Elem: &elem})
}

// Texts returns a new list-of-text column (TEXT[]).
func Texts(name string) *Builder {
	return List(name, TypeInfo{Type: TypeText})
}

// Ints returns a new list-of-integer column (INTEGER[]).
func Ints(name string) *Builder {
	return List(name, TypeInfo{Type: TypeInt})
}

// JSONs returns a new list-of-mappings column. Lists of free-form
// mappings are stored as a single JSONB document, not an array type.
func JSONs(name string) *Builder {
	return List(name, TypeInfo{Type: TypeJSON})
}

// PrimaryKey marks the column as part of the table primary key. Primary
// keys are never nullable; a prior or later NotNull/nullable toggle is
// irrelevant.
func (b *Builder) PrimaryKey() *Builder {
	b.desc.PrimaryKey = true
	b.desc.Nullable = false
	return b
}

// NotNull declares the column NOT NULL.
func (b *Builder) NotNull() *Builder {
	if !b.desc.PrimaryKey {
		b.desc.Nullable = false
	}
	return b
}

// Unique adds a UNIQUE constraint.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// Index requests a secondary index on the column. The index name defaults
// to idx_<table>_<column> and the method to btree.
func (b *Builder) Index() *Builder {
	b.desc.Index = true
	if b.desc.IndexType == "" {
		b.desc.IndexType = DefaultIndexType
	}
	return b
}

// IndexName overrides the generated index name. Implies Index.
func (b *Builder) IndexName(name string) *Builder {
	b.desc.IndexName = name
	return b.Index()
}

// IndexType overrides the index method (e.g. "gin", "hash"). Implies Index.
func (b *Builder) IndexType(indexType string) *Builder {
	b.desc.IndexType = indexType
	return b.Index()
}

// IndexOps sets the operator class appended to the indexed column in the
// generated CREATE INDEX statement. Implies Index.
func (b *Builder) IndexOps(ops string) *Builder {
	b.desc.IndexOps = ops
	return b.Index()
}

// ForeignKey declares a foreign-key constraint referencing table(column).
func (b *Builder) ForeignKey(table, column string) *Builder {
	b.desc.ForeignKeyTable = table
	b.desc.ForeignKeyColumn = column
	return b
}

// OnDelete sets the ON DELETE action of the foreign-key constraint.
func (b *Builder) OnDelete(action ReferenceOption) *Builder {
	b.desc.OnDelete = action
	return b
}

// DBDefault sets the database-side DEFAULT. String values matching a
// recognized SQL function name (NOW(), CURRENT_TIMESTAMP, CURRENT_DATE,
// CURRENT_TIME) are emitted bare, other strings single-quoted, and
// everything else verbatim.
func (b *Builder) DBDefault(value any) *Builder {
	b.desc.Default = value
	return b
}

// Timezone declares the timestamp timezone-aware (TIMESTAMPTZ). It is an
// error on any column that is not a DateTime.
func (b *Builder) Timezone() *Builder {
	if b.desc.Info.Type != TypeDateTime {
		b.desc.Err = fmt.Errorf("field: Timezone is only valid on DateTime columns, not %s", b.desc.Info.Type)
		return b
	}
	b.desc.TimezoneAware = true
	return b
}

// Descriptor returns the built column metadata.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
