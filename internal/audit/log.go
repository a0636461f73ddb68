// Package audit is the append-only audit trail of every attempted mutation.
//
// Success entries for event mutations are written by the engine inside the
// mutation's own transaction (store.Tx.AppendAudit). Everything else,
// including every failure entry, goes through Log.Append, which writes in
// its own short transaction so a rolled-back mutation still leaves a trace.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/store"
)

// ErrInvalidRetention is returned by PurgeOlderThan for a negative window.
var ErrInvalidRetention = errors.New("retention days must not be negative")

// Log reads and writes the audit trail.
type Log struct {
	store  *store.Store
	clock  domain.Clock
	logger *slog.Logger
}

// Option configures a Log.
type Option func(*Log)

// WithClock sets the clock used to stamp entries and compute purge cutoffs.
func WithClock(c domain.Clock) Option {
	return func(l *Log) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Log backed by s.
func New(s *store.Store, opts ...Option) *Log {
	l := &Log{
		store:  s,
		clock:  domain.SystemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append writes one entry. A zero timestamp is stamped with the clock and a
// blank actor is attributed to the system. A blank source is taken from ctx.
// A failed write is returned to the caller and logged; it is never swallowed.
func (l *Log) Append(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.clock.Now()
	}
	entry.Actor = entry.Actor.OrSystem()
	if entry.Source == "" {
		entry.Source = SourceFrom(ctx)
	}

	written, err := l.store.AppendAudit(ctx, entry)
	if err != nil {
		l.logger.Error("audit write failed",
			"action", entry.Action,
			"category", entry.Category,
			"status", entry.Status,
			"error", err)
		return domain.AuditEntry{}, err
	}
	return written, nil
}

// Query returns entries matching filter, newest first.
func (l *Log) Query(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	if filter.Category != "" {
		if _, err := domain.ParseCategory(string(filter.Category)); err != nil {
			return nil, err
		}
	}
	return l.store.QueryAudit(ctx, filter)
}

// Summarize counts entries per category and status within the optional
// [from, to] day range.
func (l *Log) Summarize(ctx context.Context, from, to domain.Date) (map[domain.Category]domain.Outcome, error) {
	return l.store.SummarizeAudit(ctx, from, to)
}

// PurgeOlderThan deletes entries stamped strictly before now minus days and
// returns how many were removed. The purge itself is then recorded under the
// backup category, so the trail always shows who trimmed it.
func (l *Log) PurgeOlderThan(ctx context.Context, actor domain.Actor, days int) (int64, error) {
	if days < 0 {
		err := fmt.Errorf("%w, got %d", ErrInvalidRetention, days)
		return 0, l.failPurge(ctx, actor, err)
	}

	now := l.clock.Now()
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)

	removed, err := l.store.PurgeAuditBefore(ctx, cutoff)
	if err != nil {
		return 0, l.failPurge(ctx, actor, err)
	}

	details := fmt.Sprintf("removed: %d, older than: %d days, cutoff: %s",
		removed, days, cutoff.In(l.store.Location()).Format(time.DateTime))
	if _, err := l.Append(ctx, domain.AuditEntry{
		Timestamp: now,
		Actor:     actor,
		Action:    fmt.Sprintf("purged %d audit entries", removed),
		Category:  domain.CategoryBackup,
		Details:   details,
		Status:    domain.StatusSuccess,
	}); err != nil {
		return removed, err
	}

	l.logger.Info("audit log purged", "removed", removed, "days", days)
	return removed, nil
}

// failPurge records a failed purge and returns cause, joined with the audit
// write error if that failed too.
func (l *Log) failPurge(ctx context.Context, actor domain.Actor, cause error) error {
	_, err := l.Append(ctx, domain.AuditEntry{
		Actor:    actor,
		Action:   "purge old audit entries",
		Category: domain.CategoryBackup,
		Details:  cause.Error(),
		Status:   domain.StatusFailure,
	})
	return errors.Join(cause, err)
}
