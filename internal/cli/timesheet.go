package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ponto/internal/timesheet"
)

type timesheetOutput struct {
	EmployeeID int64                    `json:"employee_id"`
	Year       int                      `json:"year"`
	Month      time.Month               `json:"month"`
	Days       []timesheet.DayReport    `json:"days"`
	Summary    timesheet.MonthlySummary `json:"summary"`
}

func (o timesheetOutput) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Employee %d - %s %d\n", o.EmployeeID, o.Month, o.Year)
	for _, d := range o.Days {
		var times []string
		for _, e := range d.Events {
			times = append(times, fmt.Sprintf("%s %s", e.Kind, e.Timestamp.Format("15:04")))
		}
		status := d.Worked
		switch {
		case d.IsHoliday:
			status = "holiday"
		case d.IsDayOff:
			status = "day off"
		case status == "" && len(d.Events) > 0:
			status = "incomplete"
		}
		fmt.Fprintf(w, "%s %-3s %-10s %s\n", d.Date, d.Date.In(time.UTC).Weekday().String()[:3], status, strings.Join(times, ", "))
		for _, warning := range d.Warnings {
			fmt.Fprintf(w, "    ! %s\n", warning)
		}
	}
	summaryOutput(o.Summary).RenderText(w)
}

type summaryOutput timesheet.MonthlySummary

func (s summaryOutput) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Total worked: %s over %d days (holidays: %d, days off: %d)\n",
		s.Total, s.WorkedDays, s.HolidayCount, s.DayOffCount)
}

// NewTimesheetCommand creates the timesheet command.
func NewTimesheetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "timesheet <employee-id> <year> <month>",
		Short: "Show an employee's month day by day",
		Long: `Show every day of the month with its events, holiday and day-off flags,
worked time and any data-quality warnings, followed by the monthly totals.

Example:
  ponto timesheet 1 2026 3`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := parseID("employee id", args[0])
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}
			year, month, err := parseYearMonth(args[1], args[2])
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}

			days, err := s.sheet.BuildMonth(commandContext(cmd), id, year, month)
			if err != nil {
				return s.out.Fail("timesheet failed", err)
			}
			summary := timesheet.Summarize(days)
			summary.EmployeeID, summary.Year, summary.Month = id, year, month

			return s.out.Success(timesheetOutput{
				EmployeeID: id,
				Year:       year,
				Month:      month,
				Days:       timesheet.Report(days),
				Summary:    summary,
			})
		},
	}
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <employee-id> <year> <month>",
		Short: "Show an employee's monthly totals",
		Long: `Show total worked time, worked days, holidays and days off for a month.
Holidays and days off are never counted as worked, even if they hold events.

Example:
  ponto summary 1 2026 3`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := parseID("employee id", args[0])
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}
			year, month, err := parseYearMonth(args[1], args[2])
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}

			summary, err := s.sheet.MonthlySummary(commandContext(cmd), id, year, month)
			if err != nil {
				return s.out.Fail("summary failed", err)
			}
			return s.out.Success(summaryOutput(summary))
		},
	}
}
