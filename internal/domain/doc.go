// Package domain holds the attendance ledger's value types: employees, the
// four clock event kinds, holidays, day-offs and audit log entries.
//
// All sequencing and uniqueness rules are scoped to a calendar Date taken
// from an event's own timestamp, never from the wall clock at the time the
// rule is evaluated. Back-dated and administrative timestamps are therefore
// judged against the day they belong to.
package domain
