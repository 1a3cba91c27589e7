package listings

import "github.com/nightlife/listings/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check, and ErrorType for the machine-readable type.
var (
	ErrInvalidArgument    = domain.ErrInvalidArgument
	ErrPreconditionFailed = domain.ErrPreconditionFailed
	ErrStorage            = domain.ErrStorage
)

// ErrorType returns the machine-readable type of a request error
// (e.g. "invalid_sort", "missing_city"), or "" for other errors.
func ErrorType(err error) string {
	return domain.TypeOf(err)
}
