package tool

import (
	"fmt"
	"strings"
)

// AlreadyRegisteredError is returned when registering a duplicate tool name.
type AlreadyRegisteredError struct {
	Name string
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// NotFoundError is returned when executing a call to an unregistered tool.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// ArgumentError indicates the arguments of a call could not be decoded into
// the tool's declared parameter type.
type ArgumentError struct {
	Tool   string
	Reason string
	Err    error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
}

// Unwrap returns the underlying decode error.
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// LookupError indicates a well-formed call asked for data that does not
// exist, such as an unrecognized spending category. The message lists what
// is available so a model reading it can correct itself.
type LookupError struct {
	Tool      string
	Key       string
	Available []string
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("%s: unknown category %q", e.Tool, e.Key)
	if len(e.Available) > 0 {
		msg += ". Known categories: " + strings.Join(e.Available, ", ")
	}
	return msg
}
