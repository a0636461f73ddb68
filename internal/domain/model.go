package domain

import "time"

// Employee is the authoritative parent of events and day-offs.
type Employee struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Event is a single clock event. EmployeeID is a non-owning reference.
type Event struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	Kind       EventKind `json:"kind"`
	Timestamp  time.Time `json:"timestamp"`
}

// Date returns the calendar day the event belongs to.
func (e Event) Date() Date {
	return DateOf(e.Timestamp)
}

// DayOff marks a date on which one employee's worked time is not computed.
type DayOff struct {
	EmployeeID int64 `json:"employee_id"`
	Date       Date  `json:"date"`
}

// Actor names whoever performed an operation. It is threaded explicitly
// through every mutating call and stamped on the audit entry it produces.
type Actor string

// SystemActor attributes operations that have no human caller.
const SystemActor Actor = "system"

// OrSystem returns a, or SystemActor when a is blank.
func (a Actor) OrSystem() Actor {
	if n := Actor(NormalizeText(string(a))); n != "" {
		return n
	}
	return SystemActor
}
