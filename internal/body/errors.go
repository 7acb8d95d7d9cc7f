package body

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRadius         = errors.New("radius must be positive")
	ErrInvalidOrbitPeriod    = errors.New("orbit period must be positive")
	ErrInvalidDistance       = errors.New("orbit distance must not be negative")
	ErrInvalidRotationPeriod = errors.New("rotation period must not be negative")
	ErrInvalidRing           = errors.New("ring radii must satisfy 0 <= inner < outer")
	ErrUnknownBody           = errors.New("unknown body")
	ErrReleased              = errors.New("arena released")
)

// SpecError reports an invalid descriptor field for a named body.
type SpecError struct {
	Body  string
	Field string
	Value float64
	Err   error
}

func (e *SpecError) Error() string {
	name := e.Body
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("body %q: %s = %g: %v", name, e.Field, e.Value, e.Err)
}

func (e *SpecError) Unwrap() error { return e.Err }
