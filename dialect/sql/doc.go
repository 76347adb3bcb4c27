// Package sql implements the connection and execution wrapper over
// database/sql and the lib/pq PostgreSQL driver.
//
// A Conn owns exactly one live connection. Connection parameters are
// resolved per instance from explicit overrides, a YAML file, or the
// DATABASE_* environment variables. ExecuteQuery is the single
// parameterized-execute primitive; results are shaped through the Result
// accessors (raw tuples, column-keyed maps, tabular Frame).
package sql
