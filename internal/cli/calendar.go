package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/ponto/internal/domain"
)

type dateList []domain.Date

func (l dateList) RenderText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "None.")
		return
	}
	for _, d := range l {
		fmt.Fprintln(w, d)
	}
}

type calendarChange struct {
	Date    domain.Date `json:"date"`
	Added   bool        `json:"added"`
	Message string      `json:"message"`
}

func (c calendarChange) RenderText(w io.Writer) {
	fmt.Fprintln(w, c.Message)
}

// NewHolidayCommand creates the holiday command group.
func NewHolidayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holiday",
		Short: "Manage global holidays",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <YYYY-MM-DD>",
		Short: "Mark a date as a holiday for everyone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			day, err := domain.ParseDate(args[0])
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}
			added, err := s.ledger.AddHoliday(commandContext(cmd), s.actor, day)
			if err != nil {
				return s.out.Fail("add holiday failed", err)
			}
			msg := fmt.Sprintf("Holiday %s added", day)
			if !added {
				msg = fmt.Sprintf("Holiday %s already registered", day)
			}
			return s.out.Success(calendarChange{Date: day, Added: added, Message: msg})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List holidays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.out.Success(dateList(s.ledger.ListHolidays(commandContext(cmd))))
		},
	})

	return cmd
}

// NewDayOffCommand creates the dayoff command group.
func NewDayOffCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dayoff",
		Short: "Manage employee days off",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <employee-id> <YYYY-MM-DD>",
		Short: "Mark a day off for an employee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := parseID("employee id", args[0])
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}
			day, err := domain.ParseDate(args[1])
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}
			added, err := s.ledger.SetDayOff(commandContext(cmd), s.actor, id, day)
			if err != nil {
				return s.out.Fail("set day off failed", err)
			}
			msg := fmt.Sprintf("Day off %s set for employee %d", day, id)
			if !added {
				msg = fmt.Sprintf("Day off %s already set for employee %d", day, id)
			}
			return s.out.Success(calendarChange{Date: day, Added: added, Message: msg})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list <employee-id>",
		Short: "List an employee's days off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := parseID("employee id", args[0])
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}
			days, err := s.ledger.ListDaysOff(commandContext(cmd), id)
			if err != nil {
				return s.out.Fail("list days off failed", err)
			}
			return s.out.Success(dateList(days))
		},
	})

	return cmd
}
