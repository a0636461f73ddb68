package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/ponto/internal/audit"
	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/store"
)

// DefaultMinJustification is the minimum number of trimmed characters an
// administrative edit must carry.
const DefaultMinJustification = 10

// Ledger records, adjusts and removes attendance events and manages the
// employees, holidays and day-offs they hang off.
//
// Every mutating call takes the acting user explicitly and produces exactly
// one audit entry before it returns, whether it succeeds or fails:
//   - success entries commit in the same transaction as the mutation
//   - failure entries are written after the attempt has rolled back
//
// Thread-safety: Ledger holds no mutable state of its own. Concurrent calls
// are serialized by the store's single write connection.
type Ledger struct {
	store            *store.Store
	audit            *audit.Log
	clock            domain.Clock
	logger           *slog.Logger
	minJustification int
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the clock used for default event timestamps and audit
// entries. Use testutil.StepClock for deterministic tests.
func WithClock(c domain.Clock) Option {
	return func(l *Ledger) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMinJustification raises the justification length requirement.
// Values at or below DefaultMinJustification are ignored.
func WithMinJustification(n int) Option {
	return func(l *Ledger) {
		if n > DefaultMinJustification {
			l.minJustification = n
		}
	}
}

// New creates a Ledger over s, writing failure entries through log.
func New(s *store.Store, log *audit.Log, opts ...Option) *Ledger {
	l := &Ledger{
		store:            s,
		audit:            log,
		clock:            domain.SystemClock{},
		logger:           slog.Default(),
		minJustification: DefaultMinJustification,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is the boundary outcome of a mutating event operation.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	EventID int64  `json:"event_id,omitempty"`
}

// attempt describes a mutation for its audit entry.
type attempt struct {
	actor    domain.Actor
	category domain.Category
	action   string
	details  string
}

// fail writes the failure audit entry for a rolled-back attempt and returns
// the classified error. If the audit write fails too, both are returned.
func (l *Ledger) fail(ctx context.Context, a attempt, cause error) (Result, error) {
	lerr := Classify(cause)

	details := "reason: " + lerr.Message
	if a.details != "" {
		details = a.details + ", " + details
	}
	_, auditErr := l.audit.Append(ctx, domain.AuditEntry{
		Timestamp: l.clock.Now(),
		Actor:     a.actor,
		Action:    a.action,
		Category:  a.category,
		Details:   details,
		Status:    domain.StatusFailure,
	})

	l.logger.Warn("operation rejected",
		"action", a.action,
		"actor", a.actor,
		"code", lerr.Code,
		"reason", lerr.Message)

	if auditErr != nil {
		return Result{Message: lerr.Message}, errors.Join(lerr, auditErr)
	}
	return Result{Message: lerr.Message}, lerr
}

// RejectInput audits an event mutation whose arguments the caller could not
// parse, such as a malformed timestamp or request body, and returns cause as
// an INVALID_INPUT error. Nothing is written besides the failure entry.
func (l *Ledger) RejectInput(ctx context.Context, actor domain.Actor, action string, cause error) error {
	a := attempt{
		actor:    actor.OrSystem(),
		category: domain.CategoryEvent,
		action:   action,
	}
	_, err := l.fail(ctx, a, &LedgerError{Code: ErrCodeInvalidInput, Message: cause.Error(), Err: cause})
	return err
}

// success builds the audit entry for a mutation about to commit.
func (l *Ledger) success(ctx context.Context, a attempt) domain.AuditEntry {
	return domain.AuditEntry{
		Timestamp: l.clock.Now(),
		Actor:     a.actor,
		Action:    a.action,
		Category:  a.category,
		Details:   a.details,
		Source:    audit.SourceFrom(ctx),
		Status:    domain.StatusSuccess,
	}
}

// lookupEmployee loads an employee inside tx, mapping absence to NOT_FOUND.
func lookupEmployee(ctx context.Context, tx *store.Tx, id int64) (domain.Employee, error) {
	emp, err := tx.GetEmployee(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Employee{}, NewError(ErrCodeNotFound, "employee %d not found", id)
	}
	return emp, err
}

// parseKind validates a raw kind as INVALID_KIND.
func parseKind(raw string) (domain.EventKind, error) {
	kind, err := domain.ParseEventKind(raw)
	if err != nil {
		return "", &LedgerError{Code: ErrCodeInvalidKind, Message: fmt.Sprintf("invalid event kind %q", raw), Err: err}
	}
	return kind, nil
}

// checkJustification enforces the minimum trimmed length.
func (l *Ledger) checkJustification(justification string) error {
	if domain.TextLength(justification) == 0 {
		return NewError(ErrCodeMissingJustification, "justification is required")
	}
	if domain.TextLength(justification) < l.minJustification {
		return NewError(ErrCodeMissingJustification, "justification must have at least %d characters", l.minJustification)
	}
	return nil
}

// localTime converts ts into the store's zone at the precision events are
// persisted with.
func (l *Ledger) localTime(ts time.Time) time.Time {
	return ts.In(l.store.Location()).Truncate(time.Second)
}

func clockTime(ts time.Time) string {
	return ts.Format("15:04")
}

func stamp(ts time.Time) string {
	return ts.Format(time.DateTime)
}
