package timesheet

import (
	"context"
	"errors"
	"time"

	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/engine"
	"github.com/roach88/ponto/internal/store"
)

// MonthlySummary aggregates one employee's month.
type MonthlySummary struct {
	EmployeeID   int64         `json:"employee_id"`
	Year         int           `json:"year"`
	Month        time.Month    `json:"month"`
	TotalWorked  time.Duration `json:"-"`
	Total        string        `json:"total_worked"`
	WorkedDays   int           `json:"worked_days"`
	HolidayCount int           `json:"holidays"`
	DayOffCount  int           `json:"days_off"`
}

// Engine reads events, holidays and day-offs to build timesheets.
type Engine struct {
	store *store.Store
}

// New creates a timesheet Engine.
func New(s *store.Store) *Engine {
	return &Engine{store: s}
}

// BuildMonth returns one DaySummary per calendar day of the month in
// ascending order. Fails with NOT_FOUND if the employee does not exist.
func (e *Engine) BuildMonth(ctx context.Context, employeeID int64, year int, month time.Month) ([]DaySummary, error) {
	if month < time.January || month > time.December {
		return nil, engine.NewError(engine.ErrCodeInvalidInput, "month must be between 1 and 12, got %d", int(month))
	}
	if year < 1 || year > 9999 {
		return nil, engine.NewError(engine.ErrCodeInvalidInput, "year out of range: %d", year)
	}

	if _, err := e.store.GetEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, engine.NewError(engine.ErrCodeNotFound, "employee %d not found", employeeID)
		}
		return nil, engine.Classify(err)
	}

	first := domain.NewDate(year, month, 1)
	last := domain.NewDate(year, month, domain.DaysIn(year, month))

	events, err := e.store.EventsBetween(ctx, employeeID, first, last)
	if err != nil {
		return nil, engine.Classify(err)
	}
	holidays, err := e.store.HolidaysBetween(ctx, first, last)
	if err != nil {
		return nil, engine.Classify(err)
	}
	daysOff, err := e.store.DaysOffBetween(ctx, employeeID, first, last)
	if err != nil {
		return nil, engine.Classify(err)
	}

	return assemble(first, last, events, holidays, daysOff), nil
}

// MonthlySummary totals worked time over the month. Holidays and day-offs are
// counted and skipped even when they hold events; a holiday that is also a
// day-off counts as a holiday.
func (e *Engine) MonthlySummary(ctx context.Context, employeeID int64, year int, month time.Month) (MonthlySummary, error) {
	days, err := e.BuildMonth(ctx, employeeID, year, month)
	if err != nil {
		return MonthlySummary{}, err
	}
	summary := Summarize(days)
	summary.EmployeeID = employeeID
	summary.Year = year
	summary.Month = month
	return summary, nil
}

// Summarize aggregates already-built days.
func Summarize(days []DaySummary) MonthlySummary {
	var s MonthlySummary
	for _, day := range days {
		switch {
		case day.IsHoliday:
			s.HolidayCount++
			continue
		case day.IsDayOff:
			s.DayOffCount++
			continue
		}
		if d, ok := ComputeDuration(day); ok {
			s.TotalWorked += d
			s.WorkedDays++
		}
	}
	s.Total = FormatDuration(s.TotalWorked)
	return s
}

func assemble(first, last domain.Date, events []domain.Event, holidays, daysOff []domain.Date) []DaySummary {
	holidaySet := make(map[domain.Date]bool, len(holidays))
	for _, d := range holidays {
		holidaySet[d] = true
	}
	offSet := make(map[domain.Date]bool, len(daysOff))
	for _, d := range daysOff {
		offSet[d] = true
	}
	byDay := make(map[domain.Date][]domain.Event)
	for _, ev := range events {
		byDay[ev.Date()] = append(byDay[ev.Date()], ev)
	}

	var days []DaySummary
	for d := first; !last.Before(d); d = d.AddDays(1) {
		day := DaySummary{
			Date:      d,
			Events:    byDay[d],
			IsHoliday: holidaySet[d],
			IsDayOff:  offSet[d],
		}
		if day.Events == nil {
			day.Events = []domain.Event{}
		}
		day.Warnings = dataWarnings(day)
		days = append(days, day)
	}
	return days
}
