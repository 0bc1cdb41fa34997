// Package report writes summaries of formatting runs.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/andyballingall/cargo-fmt-all/internal/batch"
)

// JSONReporter implements batch.Reporter for JSON output.
type JSONReporter struct{}

type jsonResult struct {
	Dir      string `json:"dir"`
	Outcome  string `json:"outcome"`
	ExitCode int    `json:"exitCode"`
	Error    string `json:"error,omitempty"`
}

type jsonOutput struct {
	Root      string `json:"root"`
	Marker    string `json:"marker"`
	Command   string `json:"command"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  string `json:"duration"`
	Status    int    `json:"status"`
	Stats     struct {
		Invocations int `json:"invocations"`
		Failures    int `json:"failures"`
	} `json:"stats"`
	Results []jsonResult `json:"results"`
	Fatal   string       `json:"fatal,omitempty"`
}

func (jr *JSONReporter) Write(w io.Writer, r *batch.Report) error {
	out := jsonOutput{
		Root:      r.Root,
		Marker:    r.Marker,
		Command:   r.Command.String(),
		StartTime: r.Started.Format(time.RFC3339),
		EndTime:   r.Finished.Format(time.RFC3339),
		Duration:  r.Duration().String(),
		Status:    int(r.Status()),
		Results:   make([]jsonResult, 0, len(r.Results)),
	}
	out.Stats.Invocations = r.Invocations()
	out.Stats.Failures = r.Failures()

	for _, res := range r.Results {
		item := jsonResult{
			Dir:      res.Dir,
			Outcome:  res.Outcome.String(),
			ExitCode: res.ExitCode,
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		out.Results = append(out.Results, item)
	}

	if r.Fatal != nil {
		out.Fatal = r.Fatal.Error()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
