package batch

import (
	"fmt"
)

// FatalError ends a run. Dir is empty when the run was interrupted between directories.
type FatalError struct {
	Dir     string
	Outcome Outcome
	Wrapped error
}

func (e *FatalError) Error() string {
	if e.Dir == "" {
		return fmt.Sprintf("formatting aborted: %v", e.Wrapped)
	}
	return fmt.Sprintf("formatting aborted in %s: %v", e.Dir, e.Wrapped)
}

func (e *FatalError) Unwrap() error {
	return e.Wrapped
}
