package expreplay

import "errors"

// ExpReplayError implements errors unique to an experience replay
// buffer.
type ExpReplayError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *ExpReplayError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ExpReplayError) Unwrap() error {
	return e.Err
}

// ErrInvalidCapacity is returned when a replay buffer is configured with
// a non-positive capacity
var ErrInvalidCapacity = errors.New("capacity must be > 0")

// IsInvalidCapacity returns whether or not an error reports that a
// replay buffer was configured with an invalid capacity.
func IsInvalidCapacity(err error) bool {
	return errors.Is(err, ErrInvalidCapacity)
}
