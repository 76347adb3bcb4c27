package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBType(t *testing.T) {
	tests := []struct {
		name    string
		info    TypeInfo
		tzAware bool
		want    string
	}{
		{name: "text", info: TypeInfo{Type: TypeText}, want: "TEXT"},
		{name: "int", info: TypeInfo{Type: TypeInt}, want: "INTEGER"},
		{name: "float", info: TypeInfo{Type: TypeFloat}, want: "numeric"},
		{name: "bool", info: TypeInfo{Type: TypeBool}, want: "BOOLEAN"},
		{name: "date", info: TypeInfo{Type: TypeDate}, want: "DATE"},
		{name: "time", info: TypeInfo{Type: TypeTimeOfDay}, want: "TIME"},
		{name: "duration", info: TypeInfo{Type: TypeDuration}, want: "INTERVAL"},
		{name: "datetime", info: TypeInfo{Type: TypeDateTime}, want: "TIMESTAMP"},
		{name: "datetime tz", info: TypeInfo{Type: TypeDateTime}, tzAware: true, want: "TIMESTAMPTZ"},
		{name: "json", info: TypeInfo{Type: TypeJSON}, want: "JSONB"},
		{name: "unknown falls back to text", info: TypeInfo{Type: TypeInvalid}, want: "TEXT"},
		{
			name: "optional unwraps to element",
			info: TypeInfo{Type: TypeOptional, Elem: &TypeInfo{Type: TypeInt}},
			want: "INTEGER",
		},
		{
			name: "optional without element",
			info: TypeInfo{Type: TypeOptional},
			want: "TEXT",
		},
		{
			name:    "optional datetime keeps tz",
			info:    TypeInfo{Type: TypeOptional, Elem: &TypeInfo{Type: TypeDateTime}},
			tzAware: true,
			want:    "TIMESTAMPTZ",
		},
		{
			name: "list of text",
			info: TypeInfo{Type: TypeList, Elem: &TypeInfo{Type: TypeText}},
			want: "TEXT[]",
		},
		{
			name: "list of int",
			info: TypeInfo{Type: TypeList, Elem: &TypeInfo{Type: TypeInt}},
			want: "INTEGER[]",
		},
		{
			name: "list of json collapses to jsonb",
			info: TypeInfo{Type: TypeList, Elem: &TypeInfo{Type: TypeJSON}},
			want: "JSONB",
		},
		{
			name: "list of optional json collapses to jsonb",
			info: TypeInfo{Type: TypeList, Elem: &TypeInfo{Type: TypeOptional, Elem: &TypeInfo{Type: TypeJSON}}},
			want: "JSONB",
		},
		{
			name: "list without element",
			info: TypeInfo{Type: TypeList},
			want: "JSONB",
		},
		{
			name: "nested list of optional text",
			info: TypeInfo{Type: TypeList, Elem: &TypeInfo{Type: TypeOptional, Elem: &TypeInfo{Type: TypeText}}},
			want: "TEXT[]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.DBType(tt.tzAware))
		})
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "text", TypeText.String())
	assert.Equal(t, "datetime", TypeDateTime.String())
	assert.Equal(t, "invalid", TypeInvalid.String())
	assert.Equal(t, "invalid", Type(200).String())
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, TypeText, Text("name").Descriptor().Info.Type)
	assert.Equal(t, TypeInt, Int("count").Descriptor().Info.Type)
	assert.Equal(t, TypeFloat, Float("price").Descriptor().Info.Type)
	assert.Equal(t, TypeBool, Bool("active").Descriptor().Info.Type)
	assert.Equal(t, TypeDate, Date("born").Descriptor().Info.Type)
	assert.Equal(t, TypeTimeOfDay, TimeOfDay("opens_at").Descriptor().Info.Type)
	assert.Equal(t, TypeDuration, Duration("ttl").Descriptor().Info.Type)
	assert.Equal(t, TypeDateTime, DateTime("created_at").Descriptor().Info.Type)
	assert.Equal(t, TypeJSON, JSON("meta").Descriptor().Info.Type)

	fd := Texts("tags").Descriptor()
	require.NotNil(t, fd.Info.Elem)
	assert.Equal(t, TypeList, fd.Info.Type)
	assert.Equal(t, TypeText, fd.Info.Elem.Type)

	fd = Ints("scores").Descriptor()
	require.NotNil(t, fd.Info.Elem)
	assert.Equal(t, TypeInt, fd.Info.Elem.Type)

	fd = JSONs("events").Descriptor()
	require.NotNil(t, fd.Info.Elem)
	assert.Equal(t, TypeJSON, fd.Info.Elem.Type)
	assert.Equal(t, "JSONB", fd.Info.DBType(false))
}

func TestBuilderNullability(t *testing.T) {
	fd := Text("note").Descriptor()
	assert.True(t, fd.Nullable, "columns are nullable by default")

	fd = Text("note").NotNull().Descriptor()
	assert.False(t, fd.Nullable)

	fd = Text("id").PrimaryKey().Descriptor()
	assert.True(t, fd.PrimaryKey)
	assert.False(t, fd.Nullable, "primary keys are never nullable")

	fd = Text("id").NotNull().PrimaryKey().Descriptor()
	assert.False(t, fd.Nullable)
}

func TestBuilderIndex(t *testing.T) {
	fd := Text("email").Index().Descriptor()
	assert.True(t, fd.Index)
	assert.Equal(t, DefaultIndexType, fd.IndexType)

	fd = Text("email").IndexName("users_email_key").Descriptor()
	assert.True(t, fd.Index, "IndexName implies Index")
	assert.Equal(t, "users_email_key", fd.IndexName)

	fd = JSON("meta").IndexType("gin").Descriptor()
	assert.True(t, fd.Index)
	assert.Equal(t, "gin", fd.IndexType)

	fd = Text("title").IndexOps("text_pattern_ops").Descriptor()
	assert.True(t, fd.Index)
	assert.Equal(t, "text_pattern_ops", fd.IndexOps)
	assert.Equal(t, DefaultIndexType, fd.IndexType)
}

func TestBuilderForeignKey(t *testing.T) {
	fd := Text("team_id").ForeignKey("team", "team_id").OnDelete(Cascade).Descriptor()
	assert.Equal(t, "team", fd.ForeignKeyTable)
	assert.Equal(t, "team_id", fd.ForeignKeyColumn)
	assert.Equal(t, Cascade, fd.OnDelete)
	assert.Equal(t, ReferenceOption("SET NULL"), SetNull)
}

func TestBuilderTimezone(t *testing.T) {
	fd := DateTime("created_at").Timezone().Descriptor()
	require.NoError(t, fd.Err)
	assert.True(t, fd.TimezoneAware)
	assert.Equal(t, "TIMESTAMPTZ", fd.Info.DBType(fd.TimezoneAware))

	fd = Text("created_at").Timezone().Descriptor()
	require.Error(t, fd.Err)
	assert.Contains(t, fd.Err.Error(), "Timezone is only valid on DateTime columns")
}

func TestBuilderDefault(t *testing.T) {
	fd := DateTime("created_at").DBDefault("NOW()").Descriptor()
	assert.Equal(t, "NOW()", fd.Default)
	fd = Int("retries").DBDefault(0).Descriptor()
	assert.Equal(t, 0, fd.Default)
}
