package batch

import "errors"

var (
	// ErrConfiguration indicates the batch request was rejected before
	// any job ran.
	ErrConfiguration = errors.New("invalid batch configuration")

	// ErrResourceExhausted indicates the memory ceiling cannot fit even
	// a single worker.
	ErrResourceExhausted = errors.New("memory ceiling below per-worker estimate")
)
