package runner

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
)

// ExecRunner is the concrete implementation of Runner using os/exec.
// Commands inherit the environment of the current process.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner instance.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

var _ Runner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, dir string, cmd Command) (*Invocation, error) {
	//nolint:gosec // the command comes from the run configuration
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = dir

	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = &out

	err := c.Run()

	inv := &Invocation{
		Dir:     dir,
		Command: cmd,
		Output:  out.Bytes(),
	}

	if err == nil {
		return inv, nil
	}

	// A cancelled context kills the child; report the cancellation, not the exit status.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &InvocationError{Dir: dir, Command: cmd, Wrapped: ctxErr}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		inv.ExitCode = exitErr.ExitCode()
		return inv, nil
	}

	if isNotFound(err) {
		return nil, &CommandNotFoundError{Name: cmd.Name, Wrapped: err}
	}

	return nil, &InvocationError{Dir: dir, Command: cmd, Wrapped: err}
}

// isNotFound reports whether err means the program itself could not be found,
// either by a search path lookup or at an explicit path. A missing working
// directory also surfaces as fs.ErrNotExist, but with the "chdir" op.
func isNotFound(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) && pathErr.Op != "chdir" && errors.Is(err, fs.ErrNotExist)
}
