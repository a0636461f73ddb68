package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ponto/internal/domain"
)

const reason = "forgot to clock out"

func TestAdjust_InsertsWhenAbsent(t *testing.T) {
	f := newFixture(t)
	emp := f.employee(t, "Ana")
	ctx := context.Background()

	// No entrada on the day: the sequence rule does not apply to adjustments.
	res, err := f.ledger.Adjust(ctx, "admin", emp.ID, "saida", at(2, 17, 30), reason)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "event added", res.Message)
	assert.NotZero(t, res.EventID)

	entry := f.lastAudit(t)
	assert.Equal(t, "added saida at 17:30 - Ana", entry.Action)
	assert.Contains(t, entry.Details, "justification: "+reason)
}

func TestAdjust_UpdatesInPlace(t *testing.T) {
	f := newFixture(t)
	emp := f.employee(t, "Ana")
	ctx := context.Background()

	recorded, err := f.ledger.Record(ctx, "ana", emp.ID, "entrada", ptr(at(2, 8, 0)))
	require.NoError(t, err)

	res, err := f.ledger.Adjust(ctx, "admin", emp.ID, "entrada", at(2, 7, 45), reason)
	require.NoError(t, err)
	assert.Equal(t, "event adjusted", res.Message)
	assert.Equal(t, recorded.EventID, res.EventID)

	entry := f.lastAudit(t)
	assert.Equal(t, "adjusted entrada to 07:45 - Ana", entry.Action)
	assert.Contains(t, entry.Details, "old time: 2026-03-02 08:00:00")
	assert.Contains(t, entry.Details, "new time: 2026-03-02 07:45:00")
}

func TestAdjust_NeverDuplicatesSlot(t *testing.T) {
	f := newFixture(t)
	emp := f.employee(t, "Ana")
	ctx := context.Background()

	for _, min := range []int{0, 15, 30, 45} {
		_, err := f.ledger.Adjust(ctx, "admin", emp.ID, "saida", at(2, 17, min), reason)
		require.NoError(t, err)
	}

	events, err := f.ledger.EmployeeEvents(ctx, emp.ID, domain.NewDate(2026, 3, 2))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 45, events[0].Timestamp.Minute())
}

func TestAdjust_Justification(t *testing.T) {
	f := newFixture(t)
	emp := f.employee(t, "Ana")
	ctx := context.Background()

	tests := []struct {
		name          string
		justification string
		ok            bool
	}{
		{"empty", "", false},
		{"blank", "     ", false},
		{"nine characters", "too short", false},
		{"nine after trimming", "   too short   ", false},
		{"exactly ten", "ten chars!", true},
		{"accented runes count once", "correção ok", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := f.auditCount(t)
			_, err := f.ledger.Adjust(ctx, "admin", emp.ID, "entrada", at(2, 8, 0), tt.justification)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, IsMissingJustification(err))
				assert.Equal(t, domain.StatusFailure, f.lastAudit(t).Status)
			}
			assert.Equal(t, before+1, f.auditCount(t))
		})
	}
}

func TestAdjust_Preconditions(t *testing.T) {
	f := newFixture(t)
	emp := f.employee(t, "Ana")
	ctx := context.Background()

	_, err := f.ledger.Adjust(ctx, "admin", 404, "saida", at(2, 17, 0), reason)
	assert.True(t, IsNotFound(err))

	_, err = f.ledger.Adjust(ctx, "admin", emp.ID, "pausa", at(2, 17, 0), reason)
	assert.True(t, IsInvalidKind(err))

	entry := f.lastAudit(t)
	assert.Equal(t, domain.StatusFailure, entry.Status)
	assert.Contains(t, entry.Details, "justification: "+reason)
}

func TestRemove_DeletesAndAudits(t *testing.T) {
	f := newFixture(t)
	emp := f.employee(t, "Ana")
	ctx := context.Background()

	rec, err := f.ledger.Record(ctx, "ana", emp.ID, "entrada", ptr(at(2, 8, 0)))
	require.NoError(t, err)

	res, err := f.ledger.Remove(ctx, "admin", rec.EventID, emp.ID, "registered by mistake")
	require.NoError(t, err)
	assert.True(t, res.OK)

	events, err := f.ledger.EmployeeEvents(ctx, emp.ID, domain.NewDate(2026, 3, 2))
	require.NoError(t, err)
	assert.Empty(t, events)

	entry := f.lastAudit(t)
	assert.Equal(t, domain.StatusSuccess, entry.Status)
	assert.Contains(t, entry.Details, "kind: entrada")
	assert.Contains(t, entry.Details, "original time: 2026-03-02 08:00:00")
	assert.Contains(t, entry.Details, "justification: registered by mistake")
}

func TestRemove_MismatchDeletesNothing(t *testing.T) {
	f := newFixture(t)
	ana := f.employee(t, "Ana")
	bruno := f.employee(t, "Bruno")
	ctx := context.Background()

	rec, err := f.ledger.Record(ctx, "ana", ana.ID, "entrada", ptr(at(2, 8, 0)))
	require.NoError(t, err)

	before := f.auditCount(t)
	res, err := f.ledger.Remove(ctx, "admin", rec.EventID, bruno.ID, reason)
	require.Error(t, err)
	assert.True(t, IsMismatch(err))
	assert.False(t, res.OK)
	assert.Equal(t, before+1, f.auditCount(t))

	events, err := f.ledger.EmployeeEvents(ctx, ana.ID, domain.NewDate(2026, 3, 2))
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestRemove_Failures(t *testing.T) {
	f := newFixture(t)
	emp := f.employee(t, "Ana")
	ctx := context.Background()

	_, err := f.ledger.Remove(ctx, "admin", 12345, emp.ID, reason)
	assert.True(t, IsNotFound(err))

	_, err = f.ledger.Remove(ctx, "admin", 12345, emp.ID, "short")
	assert.True(t, IsMissingJustification(err))

	_, err = f.ledger.Remove(ctx, "admin", 12345, 999, reason)
	assert.True(t, IsNotFound(err))

	entries, err := f.audit.Query(ctx, domain.AuditFilter{Actor: "admin", Category: domain.CategoryEvent})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, domain.StatusFailure, e.Status)
	}
}

func TestWithMinJustification_OnlyRaisesTheFloor(t *testing.T) {
	f := newFixture(t)
	emp := f.employee(t, "Ana")
	ctx := context.Background()

	lowered := New(f.store, f.audit, WithClock(f.clock), WithMinJustification(3))
	_, err := lowered.Adjust(ctx, "admin", emp.ID, "entrada", at(2, 8, 0), "ok!")
	assert.True(t, IsMissingJustification(err))
	_, err = lowered.Remove(ctx, "admin", 1, emp.ID, "ok!")
	assert.True(t, IsMissingJustification(err))
	assert.Contains(t, err.Error(), "at least 10 characters")

	raised := New(f.store, f.audit, WithClock(f.clock), WithMinJustification(15))
	_, err = raised.Adjust(ctx, "admin", emp.ID, "entrada", at(2, 8, 0), "ten chars!")
	assert.True(t, IsMissingJustification(err))
	assert.Contains(t, err.Error(), "at least 15 characters")

	_, err = raised.Adjust(ctx, "admin", emp.ID, "entrada", at(2, 8, 0), "badge reader was offline")
	assert.NoError(t, err)
}

func TestRejectInput_AuditsFailure(t *testing.T) {
	f := newFixture(t)
	before := f.auditCount(t)

	cause := errors.New(`parsing time "soon": cannot parse`)
	err := f.ledger.RejectInput(context.Background(), "", "adjust saida for employee 1", cause)
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, before+1, f.auditCount(t))
	entry := f.lastAudit(t)
	assert.Equal(t, domain.StatusFailure, entry.Status)
	assert.Equal(t, domain.CategoryEvent, entry.Category)
	assert.Equal(t, domain.SystemActor, entry.Actor)
	assert.Equal(t, "adjust saida for employee 1", entry.Action)
	assert.Equal(t, "reason: "+cause.Error(), entry.Details)
}
