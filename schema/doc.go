// Package schema provides table models and the metadata-driven SQL
// synthesis engine.
//
// A model is declared once from per-column metadata built with
// [github.com/tablekit/tablekit/schema/field] builders:
//
//	user := schema.New("User",
//	    field.Text("user_id").PrimaryKey(),
//	    field.Text("email").Unique().Index(),
//	    field.Int("login_count"),
//	    field.DateTime("created_at").Timezone().DBDefault("NOW()"),
//	)
//
// The model compiles its metadata on demand into DDL (CreateDDL,
// IndexDDL), parameterized DQL (SelectOne, SelectMany) and DML
// (Record.Insert, Record.Update, Delete), and exposes structural
// introspection (PrimaryKeys, ForeignKeys, Indexes, ColumnBreakdown,
// Dependencies) that callers use to order table creation.
//
// Records track which columns were explicitly set; only those columns
// participate in INSERT and UPDATE:
//
//	rec := user.NewRecord().
//	    Set("user_id", schema.NewUID()).
//	    Set("email", "alice@example.com")
//	_, err := rec.Insert(ctx, schema.WithConn(conn))
//
// Operations on a borrowed connection (WithConn) never close it. Without
// one the operation opens a connection from the DATABASE_* environment
// parameters, uses it, commits if requested, and closes it on every exit
// path.
package schema
