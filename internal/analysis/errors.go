package analysis

import "errors"

var (
	// ErrInvalidInput is returned for malformed sample buffers: non-positive
	// sample rates, empty buffers, or chunk sizes that truncate to zero.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientData is returned when a padding step has nothing to cycle from.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrSilentAudio is returned when the peak amplitude of a buffer is zero.
	ErrSilentAudio = errors.New("silent audio")
)
