package db

import (
	"errors"

	"github.com/nightlife/listings/internal/domain"
)

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
)

// Op constants name the failed store operation for error context.
const (
	OpAggregate = "aggregate"
	OpCount     = "count"
	OpPing      = "ping"
	OpDecode    = "decode"
	OpScan      = "SCAN"
	OpGet       = "GET"
)

// Error wraps an underlying error with the operation name for diagnostics.
// It matches both the underlying error and domain.ErrStorage.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() []error {
	return []error{e.Err, domain.ErrStorage}
}
