package domain

import "errors"

// ErrUnknownAlgorithm is returned when no sorter is registered under a name.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidSequence is returned when input numbers cannot be sorted (e.g. negative values).
var ErrInvalidSequence = errors.New("invalid sequence")

// ErrStepLimit is returned when a run does not finish within the allowed number of steps.
var ErrStepLimit = errors.New("step limit reached")
