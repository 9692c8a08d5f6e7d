// Package report prints scenario results to a terminal.
package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/cpjust/shopcheck/internal/scenario"
)

const (
	SuccMark = "✓"
	FailMark = "✗"
)

var (
	SuccColor  = color.New(color.FgGreen)
	FailColor  = color.New(color.FgRed)
	GrayColor  = color.New(color.Faint)
	ValueColor = color.New(color.FgCyan)
)

// Summary totals a printed set of results.
type Summary struct {
	Total    int
	Passed   int
	Duration time.Duration
}

// Failed returns the number of scenarios that did not pass.
func (s Summary) Failed() int {
	return s.Total - s.Passed
}

// Print writes one line per result, mismatch details under failures, and a
// closing totals line.
func Print(w io.Writer, results []scenario.Result) Summary {
	var sum Summary
	for _, res := range results {
		sum.Total++
		sum.Duration += res.Duration
		if res.Passed() {
			sum.Passed++
			_, _ = SuccColor.Fprintf(w, "%s %s", SuccMark, res.Scenario)
			_, _ = GrayColor.Fprintf(w, " [%s] %s\n", res.Driver, res.Duration.Round(time.Millisecond))
			continue
		}

		_, _ = FailColor.Fprintf(w, "%s %s", FailMark, res.Scenario)
		_, _ = GrayColor.Fprintf(w, " [%s] %s\n", res.Driver, res.Duration.Round(time.Millisecond))
		printFailure(w, res.Kind, res.Err)
	}

	summaryColor := SuccColor
	if sum.Failed() > 0 {
		summaryColor = FailColor
	}
	_, _ = fmt.Fprintln(w)
	_, _ = summaryColor.Fprintf(w, "%d passed, %d failed", sum.Passed, sum.Failed())
	_, _ = GrayColor.Fprintf(w, " in %s\n", sum.Duration.Round(time.Millisecond))
	return sum
}

func printFailure(w io.Writer, kind string, err error) {
	var mismatch *scenario.MismatchError
	if errors.As(err, &mismatch) {
		_, _ = fmt.Fprintf(w, "    %s %s\n", kind, mismatch.What)
		_, _ = fmt.Fprintf(w, "      expected: %s\n", ValueColor.Sprintf("%q", mismatch.Expected))
		_, _ = fmt.Fprintf(w, "      actual:   %s\n", ValueColor.Sprintf("%q", mismatch.Actual))
		return
	}
	_, _ = fmt.Fprintf(w, "    %s %v\n", kind, err)
}
