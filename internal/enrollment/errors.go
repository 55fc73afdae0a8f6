package enrollment

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConcurrencyConflict = errors.New("enrollment was modified concurrently")
)
