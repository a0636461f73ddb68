package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ponto/internal/domain"
)

var loc = time.FixedZone("BRT", -3*60*60)

// ev builds an event on 2026-03-02 at hh:mm.
func ev(kind domain.EventKind, hh, mm int) domain.Event {
	return domain.Event{Kind: kind, Timestamp: time.Date(2026, 3, 2, hh, mm, 0, 0, loc)}
}

func day(events ...domain.Event) DaySummary {
	return DaySummary{Date: domain.NewDate(2026, 3, 2), Events: events}
}

func TestComputeDuration(t *testing.T) {
	const (
		in  = domain.KindEntrada
		bs  = domain.KindInicioDescanso
		be  = domain.KindFimDescanso
		out = domain.KindSaida
	)

	tests := []struct {
		name   string
		day    DaySummary
		want   string
		wantOK bool
	}{
		{"no breaks", day(ev(in, 8, 0), ev(out, 17, 0)), "9h00m", true},
		{"one break", day(ev(in, 8, 0), ev(bs, 12, 0), ev(be, 13, 0), ev(out, 17, 0)), "8h00m", true},
		{"two break pairs", day(
			ev(in, 8, 0), ev(bs, 10, 0), ev(be, 10, 15), ev(bs, 12, 0), ev(be, 13, 0), ev(out, 17, 0),
		), "8h45m", true},
		{"missing exit", day(ev(in, 8, 0)), "", false},
		{"missing entry", day(ev(out, 17, 0)), "", false},
		{"empty day", day(), "", false},
		{"exit before entry", day(ev(out, 7, 0), ev(in, 8, 0)), "", false},
		{"exit equals entry", day(ev(in, 8, 0), ev(out, 8, 0)), "", false},
		{"open break contributes nothing", day(ev(in, 8, 0), ev(bs, 12, 0), ev(out, 17, 0)), "9h00m", true},
		{"inverted break contributes nothing", day(ev(in, 8, 0), ev(be, 12, 0), ev(bs, 13, 0), ev(out, 17, 0)), "9h00m", true},
		{"breaks longer than the day", day(ev(in, 8, 0), ev(out, 9, 0), ev(bs, 6, 0), ev(be, 12, 0)), "", false},
		{"minutes are padded", day(ev(in, 8, 0), ev(out, 8, 5)), "0h05m", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ComputeDuration(tt.day)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, FormatDuration(d))
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h00m", FormatDuration(0))
	assert.Equal(t, "8h05m", FormatDuration(8*time.Hour+5*time.Minute+59*time.Second))
	assert.Equal(t, "176h00m", FormatDuration(176*time.Hour))
	assert.Equal(t, "0h00m", FormatDuration(-time.Hour))
}

func TestDataWarnings(t *testing.T) {
	const (
		in  = domain.KindEntrada
		bs  = domain.KindInicioDescanso
		be  = domain.KindFimDescanso
		out = domain.KindSaida
	)

	assert.Empty(t, dataWarnings(day(ev(in, 8, 0), ev(bs, 12, 0), ev(be, 13, 0), ev(out, 17, 0))))
	assert.Empty(t, dataWarnings(day()))

	assert.Equal(t, []string{"clock-in without clock-out"}, dataWarnings(day(ev(in, 8, 0))))
	assert.Equal(t, []string{"clock-out without clock-in"}, dataWarnings(day(ev(out, 17, 0))))
	assert.Equal(t,
		[]string{"clock-out at 07:00 is not after clock-in at 08:00"},
		dataWarnings(day(ev(out, 7, 0), ev(in, 8, 0))))
	assert.Equal(t,
		[]string{"break started at 12:00 was never ended"},
		dataWarnings(day(ev(in, 8, 0), ev(bs, 12, 0), ev(out, 17, 0))))
	assert.Equal(t,
		[]string{"break ending at 12:00 does not follow its start at 13:00"},
		dataWarnings(day(ev(in, 8, 0), ev(be, 12, 0), ev(bs, 13, 0), ev(out, 17, 0))))
	assert.Equal(t,
		[]string{"break ended at 13:00 has no start"},
		dataWarnings(day(ev(in, 8, 0), ev(be, 13, 0), ev(out, 17, 0))))
}

func TestSummarize_ExclusionsWinOverEvents(t *testing.T) {
	worked := day(ev(domain.KindEntrada, 8, 0), ev(domain.KindSaida, 17, 0))

	holiday := worked
	holiday.IsHoliday = true

	dayOff := worked
	dayOff.IsDayOff = true

	both := worked
	both.IsHoliday = true
	both.IsDayOff = true

	incomplete := day(ev(domain.KindEntrada, 8, 0))

	s := Summarize([]DaySummary{worked, holiday, dayOff, both, incomplete, worked})
	assert.Equal(t, 2, s.WorkedDays)
	assert.Equal(t, 2, s.HolidayCount)
	assert.Equal(t, 1, s.DayOffCount)
	assert.Equal(t, 18*time.Hour, s.TotalWorked)
	assert.Equal(t, "18h00m", s.Total)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, "0h00m", s.Total)
	assert.Zero(t, s.WorkedDays)
}

func TestReport(t *testing.T) {
	worked := day(ev(domain.KindEntrada, 8, 0), ev(domain.KindSaida, 16, 30))
	holiday := worked
	holiday.IsHoliday = true
	incomplete := day(ev(domain.KindEntrada, 8, 0))

	report := Report([]DaySummary{worked, holiday, incomplete})
	require.Len(t, report, 3)
	assert.Equal(t, "8h30m", report[0].Worked)
	assert.Empty(t, report[1].Worked)
	assert.Empty(t, report[2].Worked)
	assert.True(t, report[1].IsHoliday)
}
