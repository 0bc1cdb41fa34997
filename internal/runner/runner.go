// Package runner invokes external commands in a given working directory.
package runner

import (
	"context"
	"strings"
)

// Command is an external program and its fixed arguments.
type Command struct {
	Name string
	Args []string
}

// NewCommand creates a Command from a program name and its arguments.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Invocation is the result of a command which was started and ran to completion.
type Invocation struct {
	Dir      string
	Command  Command
	Output   []byte // stdout and stderr, interleaved
	ExitCode int
}

// Failed reports whether the command exited with a non-zero status.
func (i *Invocation) Failed() bool {
	return i.ExitCode != 0
}

// Runner defines the interface for running a command in a directory.
type Runner interface {
	// Run executes cmd with dir as its working directory and waits for it to finish.
	// A command which runs but exits non-zero is not an error: its exit code is
	// recorded on the returned Invocation.
	// If the program cannot be found, the error is a *CommandNotFoundError. Any other
	// failure to start or wait for the command is an *InvocationError.
	Run(ctx context.Context, dir string, cmd Command) (*Invocation, error)
}
