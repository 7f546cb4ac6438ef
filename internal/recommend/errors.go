package recommend

import "errors"

var (
	// ErrValidation marks a request that is missing required fields or
	// carries out-of-range values. Surfaced to the caller, never retried.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound marks a lookup against an unknown crop identity, or a
	// crop that lacks the data the operation needs.
	ErrNotFound = errors.New("not found")

	// ErrDataIntegrity marks a malformed reference dataset, such as a
	// crop without its environmental tolerance row.
	ErrDataIntegrity = errors.New("data integrity violation")
)
