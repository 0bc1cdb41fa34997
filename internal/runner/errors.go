package runner

import (
	"fmt"
)

// CommandNotFoundError is returned when the program cannot be resolved on the search path.
type CommandNotFoundError struct {
	Name    string
	Wrapped error
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("'%s' command not found", e.Name)
}

func (e *CommandNotFoundError) Unwrap() error {
	return e.Wrapped
}

// InvocationError is returned for any failure to start or wait for a command other
// than the program being missing.
type InvocationError struct {
	Dir     string
	Command Command
	Wrapped error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("failed to run '%s' in %s: %v", e.Command, e.Dir, e.Wrapped)
}

func (e *InvocationError) Unwrap() error {
	return e.Wrapped
}
