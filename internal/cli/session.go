package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ponto/internal/audit"
	"github.com/roach88/ponto/internal/config"
	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/engine"
	"github.com/roach88/ponto/internal/store"
	"github.com/roach88/ponto/internal/timesheet"
)

// session is everything one command invocation needs: resolved config, an
// open store, the services over it, a logger and an output formatter that
// share one trace id.
type session struct {
	cfg    config.Config
	store  *store.Store
	audit  *audit.Log
	ledger *engine.Ledger
	sheet  *timesheet.Engine
	logger *slog.Logger
	out    *OutputFormatter
	actor  domain.Actor
	clock  domain.Clock
}

// openSession resolves configuration, opens the database and wires services.
// Errors are already reported through the formatter.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	traceGen := opts.Trace
	if traceGen == nil {
		traceGen = engine.UUIDv7Generator{}
	}
	traceID := traceGen.Generate()

	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   traceID,
	}
	logger := newLogger(cmd.ErrOrStderr(), opts).With("trace_id", traceID)

	cfg, err := config.Load(config.Sources{
		File:      opts.Config,
		EnvFile:   opts.EnvFile,
		LookupEnv: opts.LookupEnv,
	})
	if err != nil {
		return nil, out.Fail("failed to load config", err)
	}
	if cmd.Flags().Changed("db") {
		cfg.Database = opts.Database
	}
	if cmd.Flags().Changed("actor") {
		cfg.Actor = opts.Actor
	}

	loc, err := cfg.Loc()
	if err != nil {
		return nil, out.Fail("invalid location", err)
	}

	out.VerboseLog("database: %s (location %s)", cfg.Database, loc)
	logger.Debug("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database,
		store.WithLocation(loc),
		store.WithBusyTimeout(cfg.BusyTimeout))
	if err != nil {
		return nil, out.Fail("failed to open database", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = domain.SystemClock{}
	}

	log := audit.New(st, audit.WithClock(clock), audit.WithLogger(logger))
	return &session{
		cfg:   cfg,
		store: st,
		audit: log,
		ledger: engine.New(st, log,
			engine.WithClock(clock),
			engine.WithLogger(logger),
			engine.WithMinJustification(cfg.JustificationMinLength)),
		sheet:  timesheet.New(st),
		logger: logger,
		out:    out,
		actor:  domain.Actor(cfg.Actor),
		clock:  clock,
	}, nil
}

// Close releases the database.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// commandContext returns the command context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newLogger builds the diagnostic logger: text on stderr by default, JSON
// when --format json, DEBUG when --verbose.
func newLogger(w io.Writer, opts *RootOptions) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
