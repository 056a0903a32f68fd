package actions

import (
	"database/sql"
	"errors"
	"fmt"
)

// ConfigurationError reports an action that cannot run because it was built
// without a required piece of configuration (no database handle, an unknown
// comparison operator, an invalid option value). It is always fatal and never
// retried.
type ConfigurationError struct {
	Op      string
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "actions: " + e.Op + ": " + e.Message
}

// NotFoundError reports a required single-record lookup that matched nothing.
type NotFoundError struct {
	Entity string
	Key    string
	Value  any
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("actions: no %s found where %s %v", e.Entity, e.Key, e.Value)
}

// Unwrap lets callers that already check sql.ErrNoRows keep working.
func (e *NotFoundError) Unwrap() error {
	return sql.ErrNoRows
}

// IsNotFound reports whether err is a NotFoundError or a bare sql.ErrNoRows
// from the underlying store.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	return errors.Is(err, sql.ErrNoRows)
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// errMissingDB builds the ConfigurationError every action returns when it was
// constructed without a database handle.
func errMissingDB(op string) error {
	return &ConfigurationError{Op: op, Message: "no database handle bound to action"}
}
