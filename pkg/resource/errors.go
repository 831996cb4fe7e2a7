package resource

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition matches any *PreconditionError.
	ErrPrecondition = errors.New("precondition failed")

	// ErrUnsupportedConfig matches any *UnsupportedConfigError.
	ErrUnsupportedConfig = errors.New("unsupported configuration")
)

// PreconditionError reports an attempt to create a dependent kind while
// its prerequisite is not live. It is never retried.
type PreconditionError struct {
	Kind    Kind
	Missing Kind
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot create %s: %s not initialized", e.Kind, e.Missing)
}

// Is lets errors.Is(err, ErrPrecondition) match.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// UnsupportedConfigError reports an unrecognized discriminator value.
type UnsupportedConfigError struct {
	Field string
	Value string
}

func (e *UnsupportedConfigError) Error() string {
	return fmt.Sprintf("unsupported %s: %q", e.Field, e.Value)
}

// Is lets errors.Is(err, ErrUnsupportedConfig) match.
func (e *UnsupportedConfigError) Is(target error) bool {
	return target == ErrUnsupportedConfig
}
