// Package tablekit is a lightweight table-model layer for PostgreSQL.
//
// Models are declared once with per-column metadata and compiled on demand
// into DDL and parameterized DML/DQL statements. The package is split into
// two layers, consumed bottom-up:
//
//   - [github.com/tablekit/tablekit/dialect/sql]: a thin connection and
//     execution wrapper around database/sql and the lib/pq driver.
//   - [github.com/tablekit/tablekit/schema]: table models, column metadata
//     descriptors ([github.com/tablekit/tablekit/schema/field]) and the
//     SQL synthesis engine.
//
// # Quick Start
//
//	user := schema.New("User",
//	    field.Text("user_id").PrimaryKey(),
//	    field.Text("email").Unique().Index(),
//	    field.DateTime("created_at").Timezone().DBDefault("NOW()"),
//	)
//
//	conn := sql.Open(sql.Params{}) // parameters resolved from DATABASE_* env
//	defer conn.Disconnect(false)
//
//	rec := user.NewRecord().
//	    Set("user_id", schema.NewUID()).
//	    Set("email", "alice@example.com")
//	if _, err := rec.Insert(ctx, schema.WithConn(conn)); err != nil {
//	    log.Fatal(err)
//	}
//
// This package holds the error types shared by both layers.
package tablekit
