package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekit/tablekit"
	"github.com/tablekit/tablekit/schema/field"
)

func TestTableName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User", "user"},
		{"UserProfile", "user_profile"},
		{"APIKey", "a_p_i_key"},
		{"HTTPServer", "h_t_t_p_server"},
		{"user", "user"},
		{"UserProfileV2", "user_profile_v2"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TableName(tt.in), "TableName(%q)", tt.in)
	}
}

func TestNew(t *testing.T) {
	m := New("UserProfile",
		field.Text("user_id").PrimaryKey(),
		field.Text("email").Unique(),
		field.Int("age"),
	)
	require.NoError(t, m.Err())
	assert.Equal(t, "UserProfile", m.Name())
	assert.Equal(t, "user_profile", m.TableName())
	assert.Equal(t, []string{"user_id", "email", "age"}, m.Columns())
	assert.Len(t, m.Fields(), 3)

	fd, ok := m.Field("email")
	require.True(t, ok)
	assert.True(t, fd.Unique)
	_, ok = m.Field("missing")
	assert.False(t, ok)
}

func TestNewErrors(t *testing.T) {
	m := New("Empty")
	require.Error(t, m.Err())
	assert.True(t, tablekit.IsDefinitionError(m.Err()))

	m = New("User",
		field.Text("user_id").PrimaryKey(),
		field.Text("user_id"),
	)
	require.Error(t, m.Err())
	assert.Contains(t, m.Err().Error(), `duplicate column "user_id"`)
	assert.Len(t, m.Fields(), 1, "duplicate columns are dropped")

	m = New("User", field.Text("name").Timezone())
	require.Error(t, m.Err())
	assert.True(t, tablekit.IsDefinitionError(m.Err()))
}

func TestPrimaryKeys(t *testing.T) {
	m := New("Membership",
		field.Text("user_id").PrimaryKey(),
		field.Text("team_id").PrimaryKey(),
		field.Text("role"),
	)
	require.NoError(t, m.Err())
	assert.Equal(t, []string{"user_id", "team_id"}, m.PrimaryKeys())

	m = New("Log", field.Text("message"))
	assert.Nil(t, m.PrimaryKeys())
}

func TestForeignKeys(t *testing.T) {
	m := New("Membership",
		field.Text("user_id").ForeignKey("user", "user_id").OnDelete(field.Cascade),
		field.Text("team_id").ForeignKey("team", "team_id"),
		field.Text("role"),
	)
	require.NoError(t, m.Err())
	fks := m.ForeignKeys()
	require.Len(t, fks, 2)
	assert.Equal(t, ForeignKey{Column: "user_id", RefTable: "user", RefColumn: "user_id", OnDelete: field.Cascade}, fks[0])
	assert.Equal(t, ForeignKey{Column: "team_id", RefTable: "team", RefColumn: "team_id"}, fks[1])
}

func TestIndexes(t *testing.T) {
	m := New("Document",
		field.Text("doc_id").PrimaryKey(),
		field.Text("title").Index(),
		field.JSON("body").IndexType("gin").IndexName("doc_body_gin"),
	)
	require.NoError(t, m.Err())
	indexes := m.Indexes()
	require.Len(t, indexes, 2)
	assert.Equal(t, Index{Name: "idx_document_title", Table: "document", Column: "title", Type: "btree"}, indexes[0])
	assert.Equal(t, Index{Name: "doc_body_gin", Table: "document", Column: "body", Type: "gin"}, indexes[1])
}

func TestColumnBreakdown(t *testing.T) {
	m := New("Event",
		field.Text("event_id").PrimaryKey(),
		field.DateTime("occurred_at").Timezone(),
		field.Text("stream_id").ForeignKey("stream", "stream_id").OnDelete(field.SetNull),
	)
	require.NoError(t, m.Err())
	infos := m.ColumnBreakdown()
	require.Len(t, infos, 3)

	assert.Equal(t, "event_id", infos[0].Name)
	assert.Equal(t, "TEXT", infos[0].Type)
	assert.True(t, infos[0].PrimaryKey)
	assert.False(t, infos[0].Nullable)

	assert.Equal(t, "TIMESTAMPTZ", infos[1].Type)
	assert.True(t, infos[1].TimezoneAware)

	assert.Equal(t, "stream", infos[2].RefTable)
	assert.Equal(t, "stream_id", infos[2].RefColumn)
	assert.Equal(t, field.SetNull, infos[2].OnDelete)
}

func TestDependencies(t *testing.T) {
	m := New("Comment",
		field.Text("comment_id").PrimaryKey(),
		field.Text("post_id").ForeignKey("post", "post_id"),
		field.Text("author_id").ForeignKey("user", "user_id"),
		field.Text("editor_id").ForeignKey("user", "user_id"),
		field.Text("parent_id").ForeignKey("comment", "comment_id"),
	)
	require.NoError(t, m.Err())
	assert.Equal(t, []string{"post", "user"}, m.Dependencies(),
		"distinct targets in first-reference order, self excluded")
}

func TestBacklog(t *testing.T) {
	m := New("Audit", field.Text("audit_id").PrimaryKey())
	assert.False(t, m.IsBacklogged())
	assert.Same(t, m, m.Backlog())
	assert.True(t, m.IsBacklogged())
}
