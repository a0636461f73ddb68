package timesheet

import (
	"fmt"
	"time"

	"github.com/roach88/ponto/internal/domain"
)

// DaySummary is one calendar day of an employee's timesheet.
type DaySummary struct {
	Date      domain.Date    `json:"date"`
	Events    []domain.Event `json:"events"`
	IsHoliday bool           `json:"is_holiday"`
	IsDayOff  bool           `json:"is_day_off"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// Times returns the timestamps of kind on the day in chronological order.
func (d DaySummary) Times(kind domain.EventKind) []time.Time {
	var out []time.Time
	for _, e := range d.Events {
		if e.Kind == kind {
			out = append(out, e.Timestamp)
		}
	}
	return out
}

// Excluded reports whether the day is skipped by worked-time accounting.
func (d DaySummary) Excluded() bool {
	return d.IsHoliday || d.IsDayOff
}

// ComputeDuration returns the time worked on day. ok is false when the day
// has no clock-in, no clock-out, a clock-out not strictly after the first
// clock-in, or a negative result after breaks. Holiday and day-off flags are
// not consulted here.
func ComputeDuration(day DaySummary) (d time.Duration, ok bool) {
	entries := day.Times(domain.KindEntrada)
	exits := day.Times(domain.KindSaida)
	if len(entries) == 0 || len(exits) == 0 {
		return 0, false
	}

	entry := entries[0]
	exit := exits[len(exits)-1]
	if !entry.Before(exit) {
		return 0, false
	}

	var breaks time.Duration
	starts := day.Times(domain.KindInicioDescanso)
	ends := day.Times(domain.KindFimDescanso)
	for i := 0; i < min(len(starts), len(ends)); i++ {
		if ends[i].After(starts[i]) {
			breaks += ends[i].Sub(starts[i])
		}
	}

	worked := exit.Sub(entry) - breaks
	if worked < 0 {
		return 0, false
	}
	return worked, true
}

// FormatDuration renders d as hours and two-digit minutes, e.g. "8h05m".
// Seconds are truncated.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

// dataWarnings lists irregularities in a day's events that ComputeDuration
// tolerates silently.
func dataWarnings(day DaySummary) []string {
	var warnings []string

	entries := day.Times(domain.KindEntrada)
	exits := day.Times(domain.KindSaida)
	switch {
	case len(entries) > 0 && len(exits) == 0:
		warnings = append(warnings, "clock-in without clock-out")
	case len(entries) == 0 && len(exits) > 0:
		warnings = append(warnings, "clock-out without clock-in")
	case len(entries) > 0 && !entries[0].Before(exits[len(exits)-1]):
		warnings = append(warnings, fmt.Sprintf("clock-out at %s is not after clock-in at %s",
			hhmm(exits[len(exits)-1]), hhmm(entries[0])))
	}

	starts := day.Times(domain.KindInicioDescanso)
	ends := day.Times(domain.KindFimDescanso)
	for i := 0; i < min(len(starts), len(ends)); i++ {
		if !ends[i].After(starts[i]) {
			warnings = append(warnings, fmt.Sprintf("break ending at %s does not follow its start at %s",
				hhmm(ends[i]), hhmm(starts[i])))
		}
	}
	for _, s := range starts[min(len(starts), len(ends)):] {
		warnings = append(warnings, fmt.Sprintf("break started at %s was never ended", hhmm(s)))
	}
	for _, e := range ends[min(len(starts), len(ends)):] {
		warnings = append(warnings, fmt.Sprintf("break ended at %s has no start", hhmm(e)))
	}

	return warnings
}

func hhmm(t time.Time) string {
	return t.Format("15:04")
}

// DayReport pairs a DaySummary with its formatted worked time for display.
type DayReport struct {
	DaySummary
	Worked string `json:"worked,omitempty"`
}

// Report annotates days with worked time. Holidays, day-offs and days with no
// computable duration have an empty Worked.
func Report(days []DaySummary) []DayReport {
	out := make([]DayReport, 0, len(days))
	for _, day := range days {
		r := DayReport{DaySummary: day}
		if !day.Excluded() {
			if d, ok := ComputeDuration(day); ok {
				r.Worked = FormatDuration(d)
			}
		}
		out = append(out, r)
	}
	return out
}
