package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cpjust/shopcheck/internal/models"
	"github.com/cpjust/shopcheck/internal/report"
	"github.com/cpjust/shopcheck/internal/services"
)

// ShowHistory prints the latest recorded runs, newest first.
func ShowHistory(out io.Writer, runs services.RunService, limit int) error {
	history, err := runs.History(limit)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		_, _ = report.GrayColor.Fprintln(out, "no recorded runs")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, run := range history {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			statusText(run),
			run.Driver,
			run.StartedAt.Local().Format(time.DateTime),
			elapsedText(run),
		)
	}
	return tw.Flush()
}

// ShowRun prints one recorded run with a line per scenario result.
func ShowRun(out io.Writer, runs services.RunService, id string) error {
	run, err := runs.GetRun(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s\n", run.ID, statusText(run))
	_, _ = report.GrayColor.Fprintf(out, "%s %s\n\n", run.Driver, run.TargetURL)

	for _, res := range run.Results {
		d := res.Duration.Round(time.Millisecond)
		if res.Passed {
			_, _ = report.SuccColor.Fprintf(out, "%s %s", report.SuccMark, res.Scenario)
			_, _ = report.GrayColor.Fprintf(out, " %s\n", d)
			continue
		}
		_, _ = report.FailColor.Fprintf(out, "%s %s", report.FailMark, res.Scenario)
		_, _ = report.GrayColor.Fprintf(out, " %s\n", d)
		fmt.Fprintf(out, "    %s %s\n", res.ErrorKind, res.Message)
	}

	failed := len(run.Failures())
	summaryColor := report.SuccColor
	if failed > 0 {
		summaryColor = report.FailColor
	}
	fmt.Fprintln(out)
	_, _ = summaryColor.Fprintf(out, "%d passed, %d failed", len(run.Results)-failed, failed)
	_, _ = report.GrayColor.Fprintf(out, " in %s\n", elapsedText(run))
	return nil
}

func statusText(run *models.Run) string {
	switch run.Status {
	case models.RunStatusPassed:
		return report.SuccColor.Sprint(run.Status)
	case models.RunStatusFailed:
		return report.FailColor.Sprint(run.Status)
	}
	return report.GrayColor.Sprint(run.Status)
}

func elapsedText(run *models.Run) string {
	if run.IsRunning() {
		return "-"
	}
	return run.Elapsed().Round(time.Millisecond).String()
}
