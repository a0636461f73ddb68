package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/store"
)

// Record registers a normal clock event.
//
// The employee must exist and kind must be one of the four known kinds.
// A nil ts means now. The day's already-recorded kinds are read and the
// sequence rule applied inside one immediate transaction, and the insert is
// a conditional insert on (employee, kind, day), so two concurrent calls for
// the same slot cannot both succeed. The event and its success audit entry
// commit together.
func (l *Ledger) Record(ctx context.Context, actor domain.Actor, employeeID int64, kind string, ts *time.Time) (Result, error) {
	actor = actor.OrSystem()

	at := l.clock.Now()
	if ts != nil {
		at = *ts
	}
	at = l.localTime(at)

	a := attempt{
		actor:    actor,
		category: domain.CategoryEvent,
		action:   fmt.Sprintf("record %s for employee %d", kind, employeeID),
		details:  fmt.Sprintf("employee id: %d, kind: %s, time: %s", employeeID, kind, stamp(at)),
	}

	var event domain.Event
	err := l.store.InTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		emp, err := lookupEmployee(ctx, tx, employeeID)
		if err != nil {
			return err
		}
		k, err := parseKind(kind)
		if err != nil {
			return err
		}

		existing, err := tx.EventKindsForDay(ctx, employeeID, domain.DateOf(at))
		if err != nil {
			return err
		}
		if err := Validate(domain.NewKindSet(existing...), k); err != nil {
			return err
		}

		event, err = tx.InsertEvent(ctx, employeeID, k, at)
		if err != nil {
			return err
		}

		a.action = fmt.Sprintf("recorded %s at %s - %s", k, clockTime(at), emp.Name)
		a.details = fmt.Sprintf("employee: %s (id: %d), kind: %s, time: %s", emp.Name, emp.ID, k, stamp(at))
		_, err = tx.AppendAudit(ctx, l.success(ctx, a))
		return err
	})
	if err != nil {
		return l.fail(ctx, a, err)
	}

	l.logger.Debug("event recorded",
		"event_id", event.ID,
		"employee_id", employeeID,
		"kind", event.Kind,
		"timestamp", event.Timestamp)
	return Result{OK: true, Message: fmt.Sprintf("%s recorded at %s", event.Kind.Label(), clockTime(event.Timestamp)), EventID: event.ID}, nil
}
