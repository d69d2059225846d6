package inference

import (
	"errors"
	"fmt"
)

// dependencyUnavailableError signals a runtime that cannot serve at all
// (e.g. llama support compiled out) so the HTTP layer can answer 503.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var d dependencyUnavailableError
	return errors.As(err, &d)
}

// runtimeError is a non-success reply from the model runtime.
type runtimeError struct {
	backend string
	status  int
	msg     string
}

func (e *runtimeError) Error() string {
	if e.status == 0 {
		return fmt.Sprintf("%s: %s", e.backend, e.msg)
	}
	return fmt.Sprintf("%s: runtime returned %d: %s", e.backend, e.status, e.msg)
}

// RuntimeStatus returns the upstream HTTP status carried by err, if any.
func RuntimeStatus(err error) (int, bool) {
	var re *runtimeError
	if errors.As(err, &re) && re.status != 0 {
		return re.status, true
	}
	return 0, false
}
