package tablekit

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a select expecting a row matches none.
	ErrNotFound = errors.New("tablekit: row not found")

	// ErrMissingCondition is returned when a destructive operation is
	// attempted without an explicit row selector. It is a usage error and
	// is raised before any SQL is built or executed.
	ErrMissingCondition = errors.New("tablekit: condition columns and values are required")

	// ErrNoConnection is returned when an operation that requires an open
	// connection, such as Commit, is called while disconnected.
	ErrNoConnection = errors.New("tablekit: no open connection")
)

// NotFoundError reports that a single-row select matched no rows.
type NotFoundError struct {
	table string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tablekit: no row in %s matched the given condition", e.table)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(err, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Table returns the table that was queried.
func (e *NotFoundError) Table() string {
	return e.table
}

// NewNotFoundError returns a new NotFoundError for the given table.
func NewNotFoundError(table string) *NotFoundError {
	return &NotFoundError{table: table}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// ConnectionError wraps a connectivity or driver failure: a failed connect,
// schema creation, commit, or statement execution. The underlying driver
// error is preserved for errors.Is/As inspection.
type ConnectionError struct {
	Op  string // Operation that failed (e.g. "connect", "execute").
	Err error  // Underlying driver error.
}

// Error returns the error string.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("tablekit: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError returns a new ConnectionError.
func NewConnectionError(op string, err error) *ConnectionError {
	return &ConnectionError{Op: op, Err: err}
}

// IsConnectionError returns true if the error is a ConnectionError.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConnectionError
	return errors.As(err, &e)
}

// QueryError wraps a select failure with the table and operation context.
type QueryError struct {
	Table string // Table being queried.
	Op    string // Operation (e.g. "select_one", "select_many").
	Err   error  // Underlying error.
}

// Error returns the error string.
func (e *QueryError) Error() string {
	return fmt.Sprintf("tablekit: querying %s (%s): %v", e.Table, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(table, op string, err error) *QueryError {
	return &QueryError{Table: table, Op: op, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// MutationError wraps an insert, update or delete failure with the table
// and operation context.
type MutationError struct {
	Table string // Table being mutated.
	Op    string // Operation (e.g. "insert", "update", "delete").
	Err   error  // Underlying error.
}

// Error returns the error string.
func (e *MutationError) Error() string {
	return fmt.Sprintf("tablekit: %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// NewMutationError returns a new MutationError.
func NewMutationError(table, op string, err error) *MutationError {
	return &MutationError{Table: table, Op: op, Err: err}
}

// IsMutationError returns true if the error is a MutationError.
func IsMutationError(err error) bool {
	if err == nil {
		return false
	}
	var e *MutationError
	return errors.As(err, &e)
}

// DefinitionError reports an invalid model or field definition, such as a
// duplicate column name. It is raised when the model is constructed.
type DefinitionError struct {
	Name string // Model or field name.
	Err  error  // Underlying definition error.
}

// Error returns the error string.
func (e *DefinitionError) Error() string {
	return fmt.Sprintf("tablekit: invalid definition %q: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// NewDefinitionError returns a new DefinitionError.
func NewDefinitionError(name string, err error) *DefinitionError {
	return &DefinitionError{Name: name, Err: err}
}

// IsDefinitionError returns true if the error is a DefinitionError.
func IsDefinitionError(err error) bool {
	if err == nil {
		return false
	}
	var e *DefinitionError
	return errors.As(err, &e)
}
