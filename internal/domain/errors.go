package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument signals a malformed request parameter.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPreconditionFailed signals a request that is well-formed but cannot be served
	// with the current parameters or configuration.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrStorage signals a failure of the underlying document store.
	ErrStorage = errors.New("storage error")
)

// Machine-readable error types returned to clients.
const (
	TypeInvalidID          = "invalid_id"
	TypeInvalidBoolean     = "invalid_boolean"
	TypeInvalidTimestamp   = "invalid_timestamp"
	TypeInvalidCoordinates = "invalid_coordinates"
	TypeInvalidBucket      = "invalid_bucket"
	TypeInvalidSort        = "invalid_sort"
	TypeInvalidField       = "invalid_field"
	TypeInvalidPagination  = "invalid_pagination"
	TypeMultipleValues     = "multiple_values"
	TypeMissingCoordinates = "missing_coordinates"
	TypeMissingCountry     = "missing_country"
	TypeMissingCity        = "missing_city"
	TypeUnconfiguredCity   = "unconfigured_city"
)

// Error is a classified search error. Kind is one of the sentinel errors above
// and is what errors.Is matches against.
type Error struct {
	Kind    error
	Type    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Type)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Kind }

// InvalidArgument creates an ErrInvalidArgument error of the given type.
func InvalidArgument(typ, format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Type: typ, Message: fmt.Sprintf(format, args...)}
}

// PreconditionFailed creates an ErrPreconditionFailed error of the given type.
func PreconditionFailed(typ, format string, args ...any) error {
	return &Error{Kind: ErrPreconditionFailed, Type: typ, Message: fmt.Sprintf(format, args...)}
}

// TypeOf returns the machine-readable type of err, or "" if err is not a *Error.
func TypeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Type
	}
	return ""
}
