package batch

import (
	"io"
	"time"

	"github.com/andyballingall/cargo-fmt-all/internal/runner"
)

// Status is the aggregate outcome of a run, used as the process exit code.
type Status int

const (
	// StatusOK means the walk completed. Directories whose command exited non-zero do not change this.
	StatusOK Status = 0
	// StatusFailed means the walk was abandoned because the command could not be run.
	StatusFailed Status = 1
)

// Outcome classifies a single invocation.
type Outcome int

const (
	// OutcomeOK means the command ran and exited zero.
	OutcomeOK Outcome = iota
	// OutcomeExitStatus means the command ran and exited non-zero. The run continues.
	OutcomeExitStatus
	// OutcomeUnavailable means the command's program could not be found. The run stops.
	OutcomeUnavailable
	// OutcomeOtherError means the command could not be started or waited for. The run stops.
	OutcomeOtherError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeExitStatus:
		return "exit-status"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeOtherError:
		return "error"
	default:
		return "unknown"
	}
}

// Fatal reports whether the outcome ends the run.
func (o Outcome) Fatal() bool {
	return o == OutcomeUnavailable || o == OutcomeOtherError
}

// Result records one invocation of the command.
type Result struct {
	Dir      string
	Outcome  Outcome
	ExitCode int // -1 when the command could not be run
	Output   []byte
	Err      error // a *FatalError for fatal outcomes, otherwise nil
}

// Report describes a completed or abandoned run.
type Report struct {
	Root     string
	Marker   string
	Command  runner.Command
	Started  time.Time
	Finished time.Time
	Results  []Result
	Fatal    *FatalError
}

// Status returns StatusFailed if and only if the run was abandoned.
func (r *Report) Status() Status {
	if r.Fatal != nil {
		return StatusFailed
	}
	return StatusOK
}

// Err returns the error which abandoned the run, or nil.
func (r *Report) Err() error {
	if r.Fatal == nil {
		return nil
	}
	return r.Fatal
}

// Invocations returns how many times the command was attempted.
func (r *Report) Invocations() int {
	return len(r.Results)
}

// Failures returns how many invocations exited non-zero.
func (r *Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == OutcomeExitStatus {
			n++
		}
	}
	return n
}

// Duration returns the wall-clock time taken by the run.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Reporter writes a summary of a Report.
type Reporter interface {
	Write(w io.Writer, r *Report) error
}
