// Package core contains the single source of truth for a database schema:
// the dialect-neutral Table/Column/Index/ForeignKey types that every other
// package in dbscribe reads, and never mutates, once a Parser produces them.
package core

import (
	"errors"
	"fmt"
)

// Sentinel error kinds from the taxonomy. Callers match with errors.Is;
// wrapped errors (QueryFailed, CircularDependency) carry extra context
// reachable with errors.As.
var (
	ErrUnsupportedDriver = errors.New("core: unsupported driver")
	ErrConnectionMissing = errors.New("core: connection not attached")
	ErrTableNotFound     = errors.New("core: table not found")
	ErrFileAlreadyExists = errors.New("core: file already exists")
	ErrInvalidConfig     = errors.New("core: invalid configuration")
)

// QueryFailedError wraps a catalog-query failure with the offending SQL
// text and the driver's own message, per the error taxonomy in §7.
type QueryFailedError struct {
	SQL string
	Err error
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("core: catalog query failed: %v\nSQL: %s", e.Err, e.SQL)
}

func (e *QueryFailedError) Unwrap() error { return e.Err }

// NewQueryFailed builds a QueryFailedError, returning nil when err is nil
// so call sites can write `return NewQueryFailed(sql, err)` unconditionally.
func NewQueryFailed(sql string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryFailedError{SQL: sql, Err: err}
}

// CircularDependencyError reports a detected foreign-key cycle as the
// sequence of table names that closes it (first node repeated at the end).
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("core: circular dependency detected: %v", e.Cycle)
}

// TableNotFoundError names the table a caller asked for that the live
// catalog does not have.
type TableNotFoundError struct {
	Name string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("core: table %q not found", e.Name)
}

func (e *TableNotFoundError) Unwrap() error { return ErrTableNotFound }
