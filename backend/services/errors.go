package services

import "errors"

// Sentinel errors. Store transport failures are passed through wrapped and are
// distinguishable from both of these with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
