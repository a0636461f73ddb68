package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/store"
)

// Adjust sets the time of an employee's event of kind on ts's day: the
// existing event is overwritten if there is one, otherwise a new event is
// inserted. The sequence rule is not applied. Justification is mandatory.
func (l *Ledger) Adjust(ctx context.Context, actor domain.Actor, employeeID int64, kind string, ts time.Time, justification string) (Result, error) {
	actor = actor.OrSystem()
	at := l.localTime(ts)
	justification = domain.NormalizeText(justification)

	a := attempt{
		actor:    actor,
		category: domain.CategoryEvent,
		action:   fmt.Sprintf("adjust %s for employee %d", kind, employeeID),
		details: fmt.Sprintf("employee id: %d, kind: %s, time: %s, justification: %s",
			employeeID, kind, stamp(at), justification),
	}

	var (
		event   domain.Event
		updated bool
	)
	err := l.store.InTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		emp, err := lookupEmployee(ctx, tx, employeeID)
		if err != nil {
			return err
		}
		k, err := parseKind(kind)
		if err != nil {
			return err
		}
		if err := l.checkJustification(justification); err != nil {
			return err
		}

		old, err := tx.FindEvent(ctx, employeeID, k, domain.DateOf(at))
		switch {
		case err == nil:
			updated = true
			if event, err = tx.UpdateEventTimestamp(ctx, old.ID, at); err != nil {
				return err
			}
			a.action = fmt.Sprintf("adjusted %s to %s - %s", k, clockTime(at), emp.Name)
			a.details = fmt.Sprintf("employee: %s (id: %d), kind: %s, old time: %s, new time: %s, justification: %s",
				emp.Name, emp.ID, k, stamp(old.Timestamp), stamp(at), justification)
		case errors.Is(err, store.ErrNotFound):
			if event, err = tx.InsertEvent(ctx, employeeID, k, at); err != nil {
				return err
			}
			a.action = fmt.Sprintf("added %s at %s - %s", k, clockTime(at), emp.Name)
			a.details = fmt.Sprintf("employee: %s (id: %d), kind: %s, time: %s, justification: %s",
				emp.Name, emp.ID, k, stamp(at), justification)
		default:
			return err
		}

		_, err = tx.AppendAudit(ctx, l.success(ctx, a))
		return err
	})
	if err != nil {
		return l.fail(ctx, a, err)
	}

	l.logger.Debug("event adjusted",
		"event_id", event.ID,
		"employee_id", employeeID,
		"kind", event.Kind,
		"updated", updated)

	msg := "event added"
	if updated {
		msg = "event adjusted"
	}
	return Result{OK: true, Message: msg, EventID: event.ID}, nil
}

// Remove deletes an event under justification. The event must exist and
// belong to employeeID; a mismatch deletes nothing.
func (l *Ledger) Remove(ctx context.Context, actor domain.Actor, eventID, employeeID int64, justification string) (Result, error) {
	actor = actor.OrSystem()
	justification = domain.NormalizeText(justification)

	a := attempt{
		actor:    actor,
		category: domain.CategoryEvent,
		action:   fmt.Sprintf("remove event %d for employee %d", eventID, employeeID),
		details:  fmt.Sprintf("event id: %d, employee id: %d, justification: %s", eventID, employeeID, justification),
	}

	err := l.store.InTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		emp, err := lookupEmployee(ctx, tx, employeeID)
		if err != nil {
			return err
		}
		if err := l.checkJustification(justification); err != nil {
			return err
		}

		event, err := tx.GetEvent(ctx, eventID)
		if errors.Is(err, store.ErrNotFound) {
			return NewError(ErrCodeNotFound, "event %d not found", eventID)
		}
		if err != nil {
			return err
		}
		if event.EmployeeID != employeeID {
			return NewError(ErrCodeMismatch, "event %d does not belong to employee %d", eventID, employeeID)
		}

		if err := tx.DeleteEvent(ctx, eventID); err != nil {
			return err
		}

		a.action = fmt.Sprintf("removed %s from %s - %s", event.Kind, stamp(event.Timestamp), emp.Name)
		a.details = fmt.Sprintf("employee: %s (id: %d), event id: %d, kind: %s, original time: %s, justification: %s",
			emp.Name, emp.ID, event.ID, event.Kind, stamp(event.Timestamp), justification)
		_, err = tx.AppendAudit(ctx, l.success(ctx, a))
		return err
	})
	if err != nil {
		return l.fail(ctx, a, err)
	}

	l.logger.Debug("event removed", "event_id", eventID, "employee_id", employeeID)
	return Result{OK: true, Message: "event removed"}, nil
}
