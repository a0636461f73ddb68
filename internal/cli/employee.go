package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/store"
)

type employeeOutput domain.Employee

func (e employeeOutput) RenderText(w io.Writer) {
	fmt.Fprintf(w, "%d\t%s\n", e.ID, e.Name)
}

type employeeList []domain.Employee

func (l employeeList) RenderText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No employees.")
		return
	}
	for _, e := range l {
		employeeOutput(e).RenderText(w)
	}
}

type removalOutput struct {
	EmployeeID int64 `json:"employee_id"`
	store.CascadeCounts
}

func (r removalOutput) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Removed employee %d (%d events, %d days off)\n", r.EmployeeID, r.Events, r.DaysOff)
}

// NewEmployeeCommand creates the employee command group.
func NewEmployeeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage employees",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Register an employee",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			emp, err := s.ledger.AddEmployee(commandContext(cmd), s.actor, strings.Join(args, " "))
			if err != nil {
				return s.out.Fail("add employee failed", err)
			}
			return s.out.Success(employeeOutput(emp))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <employee-id>",
		Short: "Remove an employee with all events and days off",
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
			counts, err := s.ledger.RemoveEmployee(commandContext(cmd), s.actor, id)
			if err != nil {
				return s.out.Fail("remove employee failed", err)
			}
			return s.out.Success(removalOutput{EmployeeID: id, CascadeCounts: counts})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List employees by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			employees, err := s.ledger.ListEmployees(commandContext(cmd))
			if err != nil {
				return s.out.Fail("list employees failed", err)
			}
			return s.out.Success(employeeList(employees))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <employee-id>",
		Short: "Show one employee",
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
			emp, err := s.ledger.GetEmployee(commandContext(cmd), id)
			if err != nil {
				return s.out.Fail("get employee failed", err)
			}
			return s.out.Success(employeeOutput(emp))
		},
	})

	return cmd
}
