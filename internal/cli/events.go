package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/engine"
)

// resultOutput renders an engine.Result.
type resultOutput engine.Result

func (r resultOutput) RenderText(w io.Writer) {
	if r.EventID != 0 {
		fmt.Fprintf(w, "%s (event %d)\n", r.Message, r.EventID)
		return
	}
	fmt.Fprintln(w, r.Message)
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "record <employee-id> <kind>",
		Short: "Record a clock event",
		Long: `Record a normal clock event for an employee.

Kinds: entrada (clock-in), inicio_descanso (break start),
fim_descanso (break end), saida (clock-out).

The daily sequence is enforced: entry first, at most one of each kind per
day, and a break must be closed before clock-out.

Example:
  ponto record 1 entrada
  ponto record 1 saida --at "2026-03-02 17:00"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			employeeID, err := parseID("employee id", args[0])
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}
			var ts *time.Time
			if at != "" {
				parsed, err := parseTimestamp(at, s.store.Location())
				if err != nil {
					action := fmt.Sprintf("record %s for employee %d", args[1], employeeID)
					return s.out.Fail("invalid arguments", s.ledger.RejectInput(commandContext(cmd), s.actor, action, err))
				}
				ts = &parsed
			}

			res, err := s.ledger.Record(commandContext(cmd), s.actor, employeeID, args[1], ts)
			if err != nil {
				return s.out.Fail("record failed", err)
			}
			return s.out.Success(resultOutput(res))
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "event time (default now)")
	return cmd
}

// NewAdjustCommand creates the adjust command.
func NewAdjustCommand(rootOpts *RootOptions) *cobra.Command {
	var at, justification string

	cmd := &cobra.Command{
		Use:   "adjust <employee-id> <kind>",
		Short: "Insert or overwrite an event with justification",
		Long: `Administratively set the time of an employee's event. If the event already
exists on that day it is overwritten, otherwise it is inserted. The daily
sequence is not enforced. A justification is mandatory and audited.

Example:
  ponto adjust 1 saida --at "2026-03-02 17:30" --justification "forgot to clock out"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			employeeID, err := parseID("employee id", args[0])
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}
			ts, err := parseTimestamp(at, s.store.Location())
			if err != nil {
				action := fmt.Sprintf("adjust %s for employee %d", args[1], employeeID)
				return s.out.Fail("invalid arguments", s.ledger.RejectInput(commandContext(cmd), s.actor, action, err))
			}

			res, err := s.ledger.Adjust(commandContext(cmd), s.actor, employeeID, args[1], ts, justification)
			if err != nil {
				return s.out.Fail("adjust failed", err)
			}
			return s.out.Success(resultOutput(res))
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "event time (required)")
	cmd.Flags().StringVarP(&justification, "justification", "j", "", "reason for the change")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	var employee, justification string

	cmd := &cobra.Command{
		Use:   "remove <event-id>",
		Short: "Delete an event with justification",
		Long: `Administratively delete an event. --employee must name the event's owner.

Example:
  ponto remove 42 --employee 1 --justification "registered by mistake"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			eventID, err := parseID("event id", args[0])
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}
			employeeID, err := parseID("employee id", employee)
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}

			res, err := s.ledger.Remove(commandContext(cmd), s.actor, eventID, employeeID, justification)
			if err != nil {
				return s.out.Fail("remove failed", err)
			}
			return s.out.Success(resultOutput(res))
		},
	}

	cmd.Flags().StringVar(&employee, "employee", "", "owning employee id (required)")
	cmd.Flags().StringVarP(&justification, "justification", "j", "", "reason for the removal")
	_ = cmd.MarkFlagRequired("employee")
	return cmd
}

// eventList renders a day's events.
type eventList []domain.Event

func (l eventList) RenderText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No events.")
		return
	}
	for _, e := range l {
		fmt.Fprintf(w, "%-6d %-16s %s\n", e.ID, e.Kind, e.Timestamp.Format("2006-01-02 15:04:05"))
	}
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "events <employee-id>",
		Short: "List an employee's events on a day",
		Long: `List an employee's events on one calendar day in chronological order.

Example:
  ponto events 1 --date 2026-03-02`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			employeeID, err := parseID("employee id", args[0])
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}
			day := domain.DateOf(s.clock.Now().In(s.store.Location()))
			if date != "" {
				if day, err = domain.ParseDate(date); err != nil {
					return s.out.Fail("invalid arguments", err)
				}
			}

			events, err := s.ledger.EmployeeEvents(commandContext(cmd), employeeID, day)
			if err != nil {
				return s.out.Fail("listing events failed", err)
			}
			return s.out.Success(eventList(events))
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to list, YYYY-MM-DD (default today)")
	return cmd
}
