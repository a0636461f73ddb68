package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/timesheet"
)

// evaluate checks one assertion against the final state.
func (h *Harness) evaluate(ctx context.Context, a Assertion) error {
	switch a.Type {
	case AssertEventCount:
		return h.assertEventCount(ctx, a)
	case AssertAuditCount:
		return h.assertAuditCount(ctx, a)
	case AssertWorked:
		return h.assertWorked(ctx, a)
	case AssertMonthTotal:
		return h.assertMonthTotal(ctx, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func (h *Harness) assertEventCount(ctx context.Context, a Assertion) error {
	id, err := h.resolveEmployee(a.Employee)
	if err != nil {
		return err
	}
	day, err := domain.ParseDate(a.Date)
	if err != nil {
		return err
	}
	events, err := h.ledger.EmployeeEvents(ctx, id, day)
	if err != nil {
		return err
	}
	if len(events) != a.Count {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: a.Count,
			Actual:   len(events),
			Message:  fmt.Sprintf("events of %s on %s", a.Employee, day),
		}
	}
	return nil
}

// assertAuditCount counts entries over the whole log. Empty category or
// status match everything.
func (h *Harness) assertAuditCount(ctx context.Context, a Assertion) error {
	summary, err := h.audit.Summarize(ctx, domain.Date{}, domain.Date{})
	if err != nil {
		return err
	}

	var n int64
	for category, outcome := range summary {
		if a.Category != "" && string(category) != a.Category {
			continue
		}
		if a.Status == "" || a.Status == string(domain.StatusSuccess) {
			n += outcome.Success
		}
		if a.Status == "" || a.Status == string(domain.StatusFailure) {
			n += outcome.Failure
		}
	}
	if n != int64(a.Count) {
		return &AssertionError{
			Type:     AssertAuditCount,
			Expected: a.Count,
			Actual:   n,
			Message:  fmt.Sprintf("category %q status %q", a.Category, a.Status),
		}
	}
	return nil
}

func (h *Harness) assertWorked(ctx context.Context, a Assertion) error {
	id, err := h.resolveEmployee(a.Employee)
	if err != nil {
		return err
	}
	day, err := domain.ParseDate(a.Date)
	if err != nil {
		return err
	}
	t := day.In(h.loc)
	days, err := h.sheets.BuildMonth(ctx, id, t.Year(), t.Month())
	if err != nil {
		return err
	}
	for _, r := range timesheet.Report(days) {
		if r.Date != day {
			continue
		}
		if r.Worked != a.Expect {
			return &AssertionError{
				Type:     AssertWorked,
				Expected: a.Expect,
				Actual:   r.Worked,
				Message:  fmt.Sprintf("worked time of %s on %s", a.Employee, day),
			}
		}
		return nil
	}
	return fmt.Errorf("worked: %s is missing from the timesheet", day)
}

func (h *Harness) assertMonthTotal(ctx context.Context, a Assertion) error {
	id, err := h.resolveEmployee(a.Employee)
	if err != nil {
		return err
	}
	summary, err := h.sheets.MonthlySummary(ctx, id, a.Year, time.Month(a.Month))
	if err != nil {
		return err
	}
	if summary.Total != a.Expect {
		return &AssertionError{
			Type:     AssertMonthTotal,
			Expected: a.Expect,
			Actual:   summary.Total,
			Message:  fmt.Sprintf("total of %s in %04d-%02d", a.Employee, a.Year, a.Month),
		}
	}
	if a.WorkedDays != nil && summary.WorkedDays != *a.WorkedDays {
		return &AssertionError{
			Type:     AssertMonthTotal,
			Expected: *a.WorkedDays,
			Actual:   summary.WorkedDays,
			Message:  "worked days",
		}
	}
	return nil
}
