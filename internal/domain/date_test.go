package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_UsesTimeLocation(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	// 01:30 UTC on the 3rd is still the 2nd in BRT.
	ts := time.Date(2026, 3, 3, 1, 30, 0, 0, time.UTC)

	assert.Equal(t, NewDate(2026, 3, 3), DateOf(ts))
	assert.Equal(t, NewDate(2026, 3, 2), DateOf(ts.In(brt)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2026, Month: time.February, Day: 28}, d)
	assert.Equal(t, "2026-02-28", d.String())

	for _, bad := range []string{"", "2026-2-28", "28/02/2026", "2026-02-30"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := NewDate(2028, 2, 28)
	assert.Equal(t, NewDate(2028, 2, 29), d.AddDays(1))
	assert.Equal(t, NewDate(2028, 3, 1), d.AddDays(2))
	assert.Equal(t, NewDate(2027, 12, 31), NewDate(2028, 1, 1).AddDays(-1))

	assert.True(t, NewDate(2026, 3, 1).Before(NewDate(2026, 3, 2)))
	assert.False(t, NewDate(2026, 3, 2).Before(NewDate(2026, 3, 2)))
	assert.True(t, Date{}.IsZero())
	assert.False(t, d.IsZero())
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, DaysIn(2026, time.March))
	assert.Equal(t, 30, DaysIn(2026, time.April))
	assert.Equal(t, 28, DaysIn(2026, time.February))
	assert.Equal(t, 29, DaysIn(2028, time.February))
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(DayOff{EmployeeID: 1, Date: NewDate(2026, 3, 9)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"employee_id":1,"date":"2026-03-09"}`, string(b))

	var back DayOff
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, NewDate(2026, 3, 9), back.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"09/03/2026"}`), &back))
}

func TestParseTimestamp(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	want := time.Date(2026, 3, 2, 8, 5, 0, 0, brt)

	for _, in := range []string{
		"2026-03-02 08:05",
		"2026-03-02T08:05",
		"2026-03-02 08:05:00",
		"2026-03-02T08:05:00",
		"2026-03-02T11:05:00Z",
	} {
		got, err := ParseTimestamp(in, brt)
		require.NoError(t, err, "input %q", in)
		assert.True(t, want.Equal(got), "input %q gave %s", in, got)
	}

	_, err := ParseTimestamp("08:05", brt)
	assert.Error(t, err)
}
