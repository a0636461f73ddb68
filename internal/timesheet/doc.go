// Package timesheet rebuilds an employee's month from stored events and
// derives worked time from it.
//
// Worked time for a day is the span from the first clock-in to the last
// clock-out minus paired breaks. The i-th break start is paired with the
// i-th break end in chronological order; unmatched starts or ends and
// inverted pairs contribute nothing. Those irregularities are reported as
// DaySummary.Warnings instead of failing the computation.
package timesheet
