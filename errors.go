package pinslab

import "github.com/pkg/errors"

var (
	// ErrInvalidKey is matched by every key validation failure.
	// Use errors.Is to test for it.
	ErrInvalidKey = errors.New("pinslab: invalid key")

	// ErrOutOfBounds indicates a key beyond the allocated chunks (or negative).
	ErrOutOfBounds error = &keyError{"pinslab: key out of bounds"}

	// ErrVacant indicates a key whose slot holds no value, e.g. a double remove.
	ErrVacant error = &keyError{"pinslab: slot is vacant"}

	// ErrCapacityExceeded indicates that growing was refused, either by
	// WithMaxChunks or because the key space is exhausted.
	ErrCapacityExceeded = errors.New("pinslab: capacity exceeded")
)

// keyError is a key validation failure that also matches ErrInvalidKey.
type keyError struct {
	msg string
}

func (e *keyError) Error() string { return e.msg }

func (e *keyError) Is(target error) bool { return target == ErrInvalidKey }
