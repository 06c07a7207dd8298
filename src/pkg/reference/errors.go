package reference

import (
	"errors"
	"fmt"
)

// ErrMissingEnvironment is wrapped by SearchPathNotFoundError when the
// search path variable is unset or empty.
var ErrMissingEnvironment = errors.New("search path environment variable is not set")

// UnrecognizedSchemeError is returned for a scheme outside the fixed scheme table
type UnrecognizedSchemeError struct {
	Scheme string
	Raw    string
}

func (e *UnrecognizedSchemeError) Error() string {
	return fmt.Sprintf("unrecognized scheme %q in reference %q", e.Scheme, e.Raw)
}

// SearchPathNotFoundError is returned when a nixpath:// name cannot be resolved
type SearchPathNotFoundError struct {
	Name     string
	Variable string
	Unset    bool
}

func (e *SearchPathNotFoundError) Error() string {
	if e.Unset {
		return fmt.Sprintf("cannot resolve search path entry %q: %s is not set", e.Name, e.Variable)
	}
	return fmt.Sprintf("search path entry %q not found in %s", e.Name, e.Variable)
}

func (e *SearchPathNotFoundError) Unwrap() error {
	if e.Unset {
		return ErrMissingEnvironment
	}
	return nil
}

// MalformedReferenceError is returned when a known scheme carries an unusable body
type MalformedReferenceError struct {
	Raw    string
	Reason string
}

func (e *MalformedReferenceError) Error() string {
	return fmt.Sprintf("malformed reference %q: %s", e.Raw, e.Reason)
}
