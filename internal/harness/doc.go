// Package harness runs attendance scenarios against a real ledger.
//
// A scenario is a YAML file that names the employees and calendar to start
// with, a flow of operations with their expected outcome, and assertions
// over the final state. Each run uses a fresh in-memory store and a
// deterministic clock, so the rendered timesheets can be compared against
// golden files.
//
// # Scenario Format
//
//	name: full_day
//	description: "A regular day with a lunch break"
//	location: America/Sao_Paulo
//	clock: "2026-03-02 07:00"
//	employees: [Ana, Bia]
//	holidays: ["2026-03-04"]
//	days_off:
//	  - { employee: Ana, date: "2026-03-05" }
//	flow:
//	  - invoke: record
//	    args: { employee: Ana, kind: entrada, at: "2026-03-02 08:00" }
//	    expect: { case: ok }
//	  - invoke: record
//	    args: { employee: Ana, kind: entrada, at: "2026-03-02 08:05" }
//	    expect: { case: SEQUENCE_VIOLATION, message: "entry already recorded today" }
//	assertions:
//	  - type: worked
//	    employee: Ana
//	    date: "2026-03-02"
//	    expect: "8h00m"
//	reports:
//	  - { employee: Ana, year: 2026, month: 3 }
//
// # Operations
//
//   - add_employee: name
//   - remove_employee: employee
//   - record: employee, kind, optional at (defaults to the clock)
//   - adjust: employee, kind, at, justification
//   - remove: employee, event, justification
//   - add_holiday: date
//   - set_day_off: employee, date
//   - purge_logs: days
//
// Employees are referenced by name everywhere; the harness maps names to the
// IDs the store assigned.
//
// # Assertion Types
//
//   - event_count: events an employee holds on a date
//   - audit_count: audit entries, optionally filtered by category and status
//   - worked: formatted worked time of one day ("" when not computable)
//   - month_total: total worked time of a month, optionally with worked_days
//
// # Golden Files
//
// RunWithGolden renders the flow outcomes and every requested report as
// plain text and compares it with testdata/golden/<name>.golden.
// Regenerate with:
//
//	go test ./internal/harness -update
package harness
