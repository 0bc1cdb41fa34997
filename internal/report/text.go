package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/andyballingall/cargo-fmt-all/internal/batch"
)

// TextReporter implements batch.Reporter for plain text output.
type TextReporter struct {
	UseColour bool
}

const (
	colReset     = "\033[0m"
	colRed       = "\033[31m"
	colGreen     = "\033[32m"
	colYellow    = "\033[33m"
	colGrey      = "\033[90m"
	colWhite     = "\033[37m"
	colBoldRed   = "\033[1;31m"
	colBoldGreen = "\033[1;32m"
	colBoldWhite = "\033[1;37m"
)

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

func (tr *TextReporter) Write(w io.Writer, r *batch.Report) error {
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprint(w, tr.cs(colBoldWhite, "FORMAT REPORT\n\n"))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Root:    "), tr.cs(colWhite, r.Root))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Command: "), tr.cs(colWhite, r.Command.String()))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Started: "), tr.cs(colWhite, r.Started.Format("15:04:05")))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Duration:"), tr.cs(colWhite, r.Duration().String()))
	fmt.Fprintf(w, "%s\n", divider)

	for _, res := range r.Results {
		fmt.Fprintf(w, "%s %s\n", tr.status(res), tr.cs(colWhite, res.Dir))
		if res.Err != nil {
			fmt.Fprintf(w, "    %v\n", res.Err)
		}
	}
	if len(r.Results) == 0 {
		fmt.Fprintf(w, "%s\n", tr.cs(colGrey, "No directories contain "+r.Marker))
	}

	fmt.Fprintf(w, "%s\n", divider)
	summaryLabel := tr.cs(colBoldWhite, "Summary: ")
	summaryStats := fmt.Sprintf("%d formatted, %d failed", r.Invocations()-r.Failures(), r.Failures())
	statsColour := colBoldGreen
	if r.Failures() > 0 || r.Fatal != nil {
		statsColour = colBoldRed
	}
	fmt.Fprintf(w, "%s%s\n", summaryLabel, tr.cs(statsColour, summaryStats))
	if r.Fatal != nil {
		fmt.Fprintf(w, "%s\n", tr.cs(colBoldRed, "Aborted: "+r.Fatal.Error()))
	}
	fmt.Fprintf(w, "%s\n", divider)

	return nil
}

func (tr *TextReporter) status(res batch.Result) string {
	switch res.Outcome {
	case batch.OutcomeOK:
		return tr.cs(colGreen, "[OK]")
	case batch.OutcomeExitStatus:
		return tr.cs(colYellow, fmt.Sprintf("[FAIL exit %d]", res.ExitCode))
	default:
		return tr.cs(colRed, "[ERROR]")
	}
}
