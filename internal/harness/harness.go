package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/roach88/ponto/internal/audit"
	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/engine"
	"github.com/roach88/ponto/internal/store"
	"github.com/roach88/ponto/internal/testutil"
	"github.com/roach88/ponto/internal/timesheet"
)

// DefaultActor acts for every operation of a scenario without an actor.
const DefaultActor = "harness"

// defaultClock is where the wall clock starts when a scenario sets none.
var defaultClock = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Harness executes one scenario against a real ledger.
type Harness struct {
	ledger    *engine.Ledger
	audit     *audit.Log
	sheets    *timesheet.Engine
	loc       *time.Location
	actor     domain.Actor
	employees map[string]int64
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with a step clock that
// advances one second per read.
//
// Execution flow:
//  1. Open the store and build the ledger over it
//  2. Create the setup employees, holidays and day-offs
//  3. Execute every flow step, checking its expect clause
//  4. Evaluate the assertions
//  5. Render the requested timesheets
//
// A returned error means the scenario could not be executed at all; failed
// expectations are reported through Result.Errors instead.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	loc := time.UTC
	if scenario.Location != "" {
		var err error
		if loc, err = time.LoadLocation(scenario.Location); err != nil {
			return nil, fmt.Errorf("load location: %w", err)
		}
	}

	start := defaultClock.In(loc)
	if scenario.Clock != "" {
		var err error
		if start, err = time.ParseInLocation(clockLayout, scenario.Clock, loc); err != nil {
			return nil, fmt.Errorf("parse clock: %w", err)
		}
	}

	st, err := store.Open(":memory:", store.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := testutil.NewStepClock(start, time.Second)
	log := audit.New(st, audit.WithClock(clock), audit.WithLogger(logger))

	actor := domain.Actor(scenario.Actor)
	if actor == "" {
		actor = DefaultActor
	}

	h := &Harness{
		ledger:    engine.New(st, log, engine.WithClock(clock), engine.WithLogger(logger)),
		audit:     log,
		sheets:    timesheet.New(st),
		loc:       loc,
		actor:     actor,
		employees: make(map[string]int64),
	}

	if err := h.setup(ctx, scenario); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		outcome, err := h.invoke(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("flow[%d] %s: %w", i, step.Invoke, err)
		}
		outcome.Seq = i + 1
		result.AddStep(outcome)
		checkExpect(result, outcome, step.Expect)
	}

	for i, a := range scenario.Assertions {
		if err := h.evaluate(ctx, a); err != nil {
			result.AddError(fmt.Sprintf("assertion %d: %v", i, err))
		}
	}

	for _, ref := range scenario.Reports {
		text, err := h.renderReport(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("report %s %04d-%02d: %w", ref.Employee, ref.Year, ref.Month, err)
		}
		result.Reports = append(result.Reports, text)
	}

	return result, nil
}

func (h *Harness) setup(ctx context.Context, s *Scenario) error {
	for _, name := range s.Employees {
		emp, err := h.ledger.AddEmployee(ctx, h.actor, name)
		if err != nil {
			return fmt.Errorf("add employee %q: %w", name, err)
		}
		h.employees[name] = emp.ID
	}
	for _, raw := range s.Holidays {
		day, err := domain.ParseDate(raw)
		if err != nil {
			return err
		}
		if _, err := h.ledger.AddHoliday(ctx, h.actor, day); err != nil {
			return fmt.Errorf("add holiday %s: %w", day, err)
		}
	}
	for _, off := range s.DaysOff {
		day, err := domain.ParseDate(off.Date)
		if err != nil {
			return err
		}
		if _, err := h.ledger.SetDayOff(ctx, h.actor, h.employees[off.Employee], day); err != nil {
			return fmt.Errorf("set day off %s for %q: %w", day, off.Employee, err)
		}
	}
	return nil
}

func checkExpect(result *Result, got StepOutcome, expect *ExpectClause) {
	want := ExpectClause{Case: CaseOK}
	if expect != nil {
		want = *expect
	}
	if got.Case != want.Case {
		result.AddError(fmt.Sprintf("step %d (%s): expected case %s, got %s (%s)",
			got.Seq, got.Invoke, want.Case, got.Case, got.Message))
		return
	}
	if want.Message != "" && got.Message != want.Message {
		result.AddError(fmt.Sprintf("step %d (%s): expected message %q, got %q",
			got.Seq, got.Invoke, want.Message, got.Message))
	}
}

// invoke runs one step. Rejections by the ledger become the outcome's case;
// only malformed steps return an error.
func (h *Harness) invoke(ctx context.Context, step FlowStep) (StepOutcome, error) {
	out := StepOutcome{Invoke: step.Invoke, Case: CaseOK}
	args := step.Args

	switch step.Invoke {
	case OpAddEmployee:
		name, err := argString(args, "name")
		if err != nil {
			return out, err
		}
		emp, err := h.ledger.AddEmployee(ctx, h.actor, name)
		if err != nil {
			return rejected(out, err), nil
		}
		h.employees[name] = emp.ID
		out.Message = fmt.Sprintf("added employee %s (id %d)", emp.Name, emp.ID)

	case OpRemoveEmployee:
		id, err := h.employeeArg(args)
		if err != nil {
			return out, err
		}
		counts, err := h.ledger.RemoveEmployee(ctx, h.actor, id)
		if err != nil {
			return rejected(out, err), nil
		}
		out.Message = fmt.Sprintf("removed employee %d: %d events, %d days off", id, counts.Events, counts.DaysOff)

	case OpRecord:
		id, err := h.employeeArg(args)
		if err != nil {
			return out, err
		}
		kind, err := argString(args, "kind")
		if err != nil {
			return out, err
		}
		var at *time.Time
		if _, ok := args["at"]; ok {
			ts, err := h.timeArg(args, "at")
			if err != nil {
				return out, err
			}
			at = &ts
		}
		res, err := h.ledger.Record(ctx, h.actor, id, kind, at)
		if err != nil {
			return rejected(out, err), nil
		}
		out.Message, out.EventID = res.Message, res.EventID

	case OpAdjust:
		id, err := h.employeeArg(args)
		if err != nil {
			return out, err
		}
		kind, err := argString(args, "kind")
		if err != nil {
			return out, err
		}
		at, err := h.timeArg(args, "at")
		if err != nil {
			return out, err
		}
		justification, err := argString(args, "justification")
		if err != nil {
			return out, err
		}
		res, err := h.ledger.Adjust(ctx, h.actor, id, kind, at, justification)
		if err != nil {
			return rejected(out, err), nil
		}
		out.Message, out.EventID = res.Message, res.EventID

	case OpRemove:
		id, err := h.employeeArg(args)
		if err != nil {
			return out, err
		}
		eventID, err := argInt(args, "event")
		if err != nil {
			return out, err
		}
		justification, err := argString(args, "justification")
		if err != nil {
			return out, err
		}
		res, err := h.ledger.Remove(ctx, h.actor, int64(eventID), id, justification)
		if err != nil {
			return rejected(out, err), nil
		}
		out.Message = res.Message

	case OpAddHoliday:
		day, err := dateArg(args, "date")
		if err != nil {
			return out, err
		}
		added, err := h.ledger.AddHoliday(ctx, h.actor, day)
		if err != nil {
			return rejected(out, err), nil
		}
		out.Message = fmt.Sprintf("holiday %s added", day)
		if !added {
			out.Message = fmt.Sprintf("holiday %s already registered", day)
		}

	case OpSetDayOff:
		id, err := h.employeeArg(args)
		if err != nil {
			return out, err
		}
		day, err := dateArg(args, "date")
		if err != nil {
			return out, err
		}
		added, err := h.ledger.SetDayOff(ctx, h.actor, id, day)
		if err != nil {
			return rejected(out, err), nil
		}
		out.Message = fmt.Sprintf("day off %s set for employee %d", day, id)
		if !added {
			out.Message = fmt.Sprintf("day off %s already set for employee %d", day, id)
		}

	case OpPurgeLogs:
		days, err := argInt(args, "days")
		if err != nil {
			return out, err
		}
		removed, err := h.audit.PurgeOlderThan(ctx, h.actor, days)
		if err != nil {
			return rejected(out, err), nil
		}
		out.Message = fmt.Sprintf("purged %d audit entries", removed)

	default:
		return out, fmt.Errorf("unknown operation %q", step.Invoke)
	}

	return out, nil
}

// rejected fills the outcome from a failed operation.
func rejected(out StepOutcome, err error) StepOutcome {
	if errors.Is(err, audit.ErrInvalidRetention) {
		out.Case = string(engine.ErrCodeInvalidInput)
		out.Message = err.Error()
		return out
	}
	lerr := engine.Classify(err)
	out.Case = string(lerr.Code)
	out.Message = lerr.Message
	return out
}

// employeeArg resolves the "employee" argument. A name maps to the ID the
// store assigned; a number is used as a raw ID.
func (h *Harness) employeeArg(args map[string]interface{}) (int64, error) {
	raw, ok := args["employee"]
	if !ok {
		return 0, fmt.Errorf("employee is required")
	}
	return h.resolveEmployee(raw)
}

func (h *Harness) resolveEmployee(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case string:
		id, ok := h.employees[v]
		if !ok {
			return 0, fmt.Errorf("unknown employee %q", v)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("employee must be a name or an ID, got %T", raw)
	}
}

func (h *Harness) timeArg(args map[string]interface{}, key string) (time.Time, error) {
	if ts, ok := args[key].(time.Time); ok {
		return ts.In(h.loc), nil
	}
	s, err := argString(args, key)
	if err != nil {
		return time.Time{}, err
	}
	return domain.ParseTimestamp(s, h.loc)
}

func dateArg(args map[string]interface{}, key string) (domain.Date, error) {
	if ts, ok := args[key].(time.Time); ok {
		return domain.DateOf(ts), nil
	}
	s, err := argString(args, key)
	if err != nil {
		return domain.Date{}, err
	}
	return domain.ParseDate(s)
}

func argString(args map[string]interface{}, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	switch v := raw.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	default:
		return "", fmt.Errorf("%s must be a string, got %T", key, raw)
	}
}

func argInt(args map[string]interface{}, key string) (int, error) {
	raw, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", key, raw)
	}
}
