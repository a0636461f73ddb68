package harness

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ponto/internal/timesheet"
)

// Snapshot renders a result as deterministic text: one line per flow step,
// then every report.
func Snapshot(name string, result *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	b.WriteString("steps:\n")
	for _, step := range result.Steps {
		fmt.Fprintf(&b, "  %s\n", step)
	}
	for _, report := range result.Reports {
		b.WriteString("\n")
		b.WriteString(report)
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario, fails the test on any broken
// expectation, and compares the snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		t.Error(e)
	}

	AssertGolden(t, scenario.Name, result)
	return nil
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(name, result))
}

// renderReport writes one employee month. Only days with events, holidays or
// day-offs are listed.
func (h *Harness) renderReport(ctx context.Context, ref ReportRef) (string, error) {
	id, err := h.resolveEmployee(ref.Employee)
	if err != nil {
		return "", err
	}
	days, err := h.sheets.BuildMonth(ctx, id, ref.Year, time.Month(ref.Month))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "timesheet %s %04d-%02d:\n", ref.Employee, ref.Year, ref.Month)
	for _, day := range timesheet.Report(days) {
		if len(day.Events) == 0 && !day.Excluded() {
			continue
		}
		b.WriteString("  ")
		b.WriteString(renderDay(day))
		b.WriteString("\n")
		for _, w := range day.Warnings {
			fmt.Fprintf(&b, "    warning: %s\n", w)
		}
	}

	s := timesheet.Summarize(days)
	fmt.Fprintf(&b, "  total %s, worked days %d, holidays %d, days off %d\n",
		s.Total, s.WorkedDays, s.HolidayCount, s.DayOffCount)
	return b.String(), nil
}

func renderDay(day timesheet.DayReport) string {
	var status string
	switch {
	case day.IsHoliday:
		status = "holiday"
	case day.IsDayOff:
		status = "day off"
	case day.Worked != "":
		status = day.Worked
	default:
		status = "incomplete"
	}

	line := day.Date.String() + " " + status
	if len(day.Events) == 0 {
		return line
	}
	parts := make([]string, 0, len(day.Events))
	for _, e := range day.Events {
		parts = append(parts, fmt.Sprintf("%s %s", e.Kind, e.Timestamp.Format("15:04")))
	}
	return line + ": " + strings.Join(parts, ", ")
}
