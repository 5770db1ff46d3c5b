package tracker

import (
	"errors"
	"fmt"
)

// ConnectivityError indicates that the tracker database could not be
// reached or a statement failed to execute.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("bugnet unavailable (%s): %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// IsConnectivityError reports whether err (or any error in its chain) is a
// ConnectivityError.
func IsConnectivityError(err error) bool {
	var connErr *ConnectivityError
	return errors.As(err, &connErr)
}

// PreconditionError indicates a missing argument; it is returned before
// any statement is issued.
type PreconditionError struct {
	Field   string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsPreconditionError reports whether err (or any error in its chain) is a
// PreconditionError.
func IsPreconditionError(err error) bool {
	var preErr *PreconditionError
	return errors.As(err, &preErr)
}

// MappingError indicates that a result row lacked a required column.
type MappingError struct {
	Record string
	Column string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping %s: column %q not in result", e.Record, e.Column)
}

// IsMappingError reports whether err (or any error in its chain) is a
// MappingError.
func IsMappingError(err error) bool {
	var mapErr *MappingError
	return errors.As(err, &mapErr)
}
