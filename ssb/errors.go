package ssb

import (
	"errors"
	"fmt"
)

// ErrCacheMiss is returned by Cache.Load when no usable entry exists.
var ErrCacheMiss = errors.New("ssb: cache miss")

// FetchError indicates the remote statistics API could not be reached or
// refused the query, and no usable cached dataset was available. Agents
// treat it as unrecoverable for the current question.
type FetchError struct {
	TableID string
	Err     error
}

// Error returns a formatted message including the table id.
func (e *FetchError) Error() string {
	return fmt.Sprintf("ssb: fetch table %s: %v", e.TableID, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError indicates the remote payload did not match the expected
// json-stat2 shape (missing dimensions, inconsistent value-array lengths).
type ParseError struct {
	TableID string
	Reason  string
	Err     error
}

// Error returns a formatted message including the table id and reason.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ssb: parse table %s: %s: %v", e.TableID, e.Reason, e.Err)
	}
	return fmt.Sprintf("ssb: parse table %s: %s", e.TableID, e.Reason)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsUnrecoverable reports whether err is a data-store failure that should
// terminate an agent run rather than be folded into the trace.
func IsUnrecoverable(err error) bool {
	var fe *FetchError
	var pe *ParseError
	return errors.As(err, &fe) || errors.As(err, &pe)
}
