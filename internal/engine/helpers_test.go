package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ponto/internal/audit"
	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/store"
	"github.com/roach88/ponto/internal/testutil"
)

var testLoc = time.FixedZone("BRT", -3*60*60)

type fixture struct {
	ledger *Ledger
	store  *store.Store
	audit  *audit.Log
	clock  *testutil.StepClock
}

// newFixture opens a fresh store with a clock starting at 2026-03-02 08:00 BRT
// that advances one second per read.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "ledger.db"), store.WithLocation(testLoc))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := testutil.NewStepClock(at(2, 8, 0), time.Second)
	log := audit.New(s, audit.WithClock(clock))
	return &fixture{
		ledger: New(s, log, WithClock(clock)),
		store:  s,
		audit:  log,
		clock:  clock,
	}
}

func (f *fixture) employee(t *testing.T, name string) domain.Employee {
	t.Helper()
	emp, err := f.ledger.AddEmployee(context.Background(), "admin", name)
	require.NoError(t, err)
	return emp
}

func (f *fixture) auditCount(t *testing.T) int64 {
	t.Helper()
	n, err := f.store.CountAudit(context.Background())
	require.NoError(t, err)
	return n
}

func (f *fixture) lastAudit(t *testing.T) domain.AuditEntry {
	t.Helper()
	entries, err := f.store.QueryAudit(context.Background(), domain.AuditFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	return entries[0]
}

// at builds a March 2026 timestamp in testLoc.
func at(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, testLoc)
}

func ptr(t time.Time) *time.Time {
	return &t
}
